// Package snapshot persists named scene snapshots.
//
// Records are kept by a Backend as opaque bytes keyed by name; the Store
// encodes and decodes them, enforces the naming rules and serialises writers.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound    = errors.New("snapshot: not found")
	ErrProtected   = errors.New("snapshot: name is protected")
	ErrInvalidName = errors.New("snapshot: invalid name")
	ErrLocked      = errors.New("snapshot: store is locked by another process")
)

// ReservedName is the placeholder entry that can never be deleted.
const ReservedName = "New File"

// Backend stores raw snapshot records.
type Backend interface {
	// Get returns ErrNotFound if nothing is stored under name.
	Get(ctx context.Context, name string) ([]byte, error)
	// Put creates or replaces the record under name.
	Put(ctx context.Context, name string, data []byte) error
	// Delete returns ErrNotFound if nothing is stored under name.
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Preferences holds the name of the snapshot used most recently.
type Preferences interface {
	// LastUsed returns "" when nothing has been recorded.
	LastUsed(ctx context.Context) (string, error)
	SetLastUsed(ctx context.Context, name string) error
}

// Factory opens a backend and its preferences at path.
type Factory func(path string) (Backend, Preferences, error)

// Backends maps backend kinds to their factories.
var Backends = map[string]Factory{
	"fs": func(path string) (Backend, Preferences, error) {
		b, err := NewFSBackend(path)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Preferences(), nil
	},
	"sqlite": func(path string) (Backend, Preferences, error) {
		b, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil
	},
	"memory": func(string) (Backend, Preferences, error) {
		return NewMemoryBackend(), &MemoryPreferences{}, nil
	},
}

// Open returns the backend of the given kind.
func Open(kind, path string) (Backend, Preferences, error) {
	f, ok := Backends[kind]
	if !ok {
		return nil, nil, fmt.Errorf("unknown snapshot backend: %s", kind)
	}
	return f(path)
}

// ValidateName rejects names that cannot be used as a record key.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case name != strings.TrimSpace(name):
		return fmt.Errorf("%w: %q has surrounding spaces", ErrInvalidName, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\:*?"<>|`+"\x00"):
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidName, name)
	}
	return nil
}

func sorted(names []string) []string {
	sort.Strings(names)
	return names
}
