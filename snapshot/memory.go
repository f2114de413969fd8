package snapshot

import (
	"context"
	"fmt"
	"sync"
)

// MemoryBackend keeps records in memory. It is meant for tests and for
// running without persistence.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string][]byte)}
}

func (b *MemoryBackend) Get(_ context.Context, name string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return append([]byte(nil), data...), nil
}

func (b *MemoryBackend) Put(_ context.Context, name string, data []byte) error {
	b.mu.Lock()
	b.records[name] = append([]byte(nil), data...)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.records[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(b.records, name)
	return nil
}

func (b *MemoryBackend) List(_ context.Context) ([]string, error) {
	b.mu.RLock()
	names := make([]string, 0, len(b.records))
	for n := range b.records {
		names = append(names, n)
	}
	b.mu.RUnlock()
	return sorted(names), nil
}

func (b *MemoryBackend) Close() error { return nil }

// MemoryPreferences keeps preferences in memory.
type MemoryPreferences struct {
	mu   sync.Mutex
	last string
}

func (p *MemoryPreferences) LastUsed(_ context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, nil
}

func (p *MemoryPreferences) SetLastUsed(_ context.Context, name string) error {
	p.mu.Lock()
	p.last = name
	p.mu.Unlock()
	return nil
}
