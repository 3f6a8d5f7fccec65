package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Provider.Get when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Provider is the durable key-value capability the Store is built on. The
// backend is chosen once at startup; callers never branch on it per call.
type Provider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// MemoryProvider keeps values in process memory. It backs tests and is the
// fallback when the configured backend cannot be opened.
type MemoryProvider struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{values: make(map[string][]byte)}
}

func (p *MemoryProvider) Get(ctx context.Context, key string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	value, ok := p.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (p *MemoryProvider) Set(ctx context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = stored
	return nil
}

func (p *MemoryProvider) Close() error {
	return nil
}
