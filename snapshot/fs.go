package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	fsExt       = ".json"
	fsLockName  = ".lock"
	fsPrefsName = ".preferences.json"
)

// FSBackend keeps one JSON file per snapshot in a directory. The directory is
// locked for the lifetime of the backend so only one process writes to it.
type FSBackend struct {
	dir  string
	lock *os.File
}

// NewFSBackend opens dir, creating it if needed. It fails with ErrLocked if
// another process holds the directory.
func NewFSBackend(dir string) (*FSBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot: fs backend needs a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create %s: %w", dir, err)
	}
	lock, err := acquireFileLock(filepath.Join(dir, fsLockName))
	if err != nil {
		return nil, fmt.Errorf("snapshot: lock %s: %w", dir, err)
	}
	return &FSBackend{dir: dir, lock: lock}, nil
}

// Dir returns the snapshot directory.
func (b *FSBackend) Dir() string { return b.dir }

func (b *FSBackend) path(name string) string {
	return filepath.Join(b.dir, name+fsExt)
}

func (b *FSBackend) Get(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(b.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, err
}

func (b *FSBackend) Put(_ context.Context, name string, data []byte) error {
	return atomicWriteFile(b.path(name), data, 0o644)
}

func (b *FSBackend) Delete(_ context.Context, name string) error {
	err := os.Remove(b.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return err
}

func (b *FSBackend) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || !strings.HasSuffix(n, fsExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(n, fsExt))
	}
	return sorted(names), nil
}

// Close releases the directory lock.
func (b *FSBackend) Close() error {
	err := releaseFileLock(b.lock)
	b.lock = nil
	return err
}

// Preferences returns preferences stored next to the snapshots.
func (b *FSBackend) Preferences() *FilePreferences {
	return &FilePreferences{Path: filepath.Join(b.dir, fsPrefsName)}
}

// FilePreferences keeps preferences in a small JSON file.
type FilePreferences struct {
	Path string
}

type filePrefs struct {
	LastOpenedFile string `json:"lastOpenedFile"`
}

func (p *FilePreferences) LastUsed(_ context.Context) (string, error) {
	data, err := os.ReadFile(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var fp filePrefs
	if err := json.Unmarshal(data, &fp); err != nil {
		return "", fmt.Errorf("preferences %s: %w", p.Path, err)
	}
	return fp.LastOpenedFile, nil
}

func (p *FilePreferences) SetLastUsed(_ context.Context, name string) error {
	data, err := json.Marshal(filePrefs{LastOpenedFile: name})
	if err != nil {
		return err
	}
	return atomicWriteFile(p.Path, data, 0o644)
}
