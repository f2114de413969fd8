package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store saves and loads snapshots by name. Writes are exclusive; reads may run
// between writes. It remembers the most recently saved or loaded name in its
// Preferences.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	prefs   Preferences
	log     *slog.Logger
	now     func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

func WithLogger(l *slog.Logger) StoreOption { return func(s *Store) { s.log = l } }

// WithClock overrides the time stamped on saved snapshots.
func WithClock(now func() time.Time) StoreOption { return func(s *Store) { s.now = now } }

// NewStore returns a store over backend. A nil prefs keeps the last used name
// in memory only.
func NewStore(backend Backend, prefs Preferences, opts ...StoreOption) *Store {
	if prefs == nil {
		prefs = &MemoryPreferences{}
	}
	s := &Store{backend: backend, prefs: prefs, log: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save writes snap under name, replacing any previous record, and returns the
// record as stored.
func (s *Store) Save(ctx context.Context, name string, snap *Snapshot) (*Snapshot, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, errors.New("snapshot: nothing to save")
	}

	rec := snap.Clone()
	rec.Version = CurrentVersion
	rec.ID = uuid.NewString()
	rec.Name = name
	rec.SavedAt = s.now().UTC()

	data, err := Encode(rec)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode %q: %w", name, err)
	}

	s.mu.Lock()
	err = s.backend.Put(ctx, name, data)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("snapshot: save %q: %w", name, err)
	}

	s.remember(ctx, name)
	s.log.Info("snapshot saved", "name", name, "id", rec.ID)
	return rec, nil
}

// List returns every stored name in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend.List(ctx)
}

// Load returns the snapshot stored under name.
func (s *Store) Load(ctx context.Context, name string) (*Snapshot, error) {
	if err := ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	s.mu.RLock()
	data, err := s.backend.Get(ctx, name)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	snap, err := Decode(name, data)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, name)
	return snap, nil
}

// Delete removes the snapshot stored under name. The reserved placeholder
// cannot be deleted.
func (s *Store) Delete(ctx context.Context, name string) error {
	if name == ReservedName {
		return fmt.Errorf("%w: %s", ErrProtected, name)
	}
	if err := ValidateName(name); err != nil {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	s.mu.Lock()
	err := s.backend.Delete(ctx, name)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if last, err := s.prefs.LastUsed(ctx); err == nil && last == name {
		s.remember(ctx, "")
	}
	s.log.Info("snapshot deleted", "name", name)
	return nil
}

// LastUsed returns the most recently saved or loaded name, or "".
func (s *Store) LastUsed(ctx context.Context) (string, error) {
	return s.prefs.LastUsed(ctx)
}

// Startup picks the snapshot to restore when the console starts: the last
// used one if it still exists, otherwise the first stored one. It returns a
// nil snapshot when the store is empty.
func (s *Store) Startup(ctx context.Context) (*Snapshot, error) {
	names, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}

	name := names[0]
	last, err := s.prefs.LastUsed(ctx)
	if err != nil {
		s.log.Warn("snapshot: reading last used name", "err", err)
	} else if last != "" && slices.Contains(names, last) {
		name = last
	}
	return s.Load(ctx, name)
}

// Close closes the backend.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Close()
}

func (s *Store) remember(ctx context.Context, name string) {
	if err := s.prefs.SetLastUsed(ctx, name); err != nil {
		s.log.Warn("snapshot: recording last used name", "name", name, "err", err)
	}
}
