package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Backend implements repository.Backend in process memory
type Backend struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewBackend creates an empty in-memory backend
func NewBackend() *Backend {
	return &Backend{data: make(map[string]map[string]string)}
}

// Restore creates a backend from bytes produced by Snapshot
func Restore(snapshot []byte) (*Backend, error) {
	b := NewBackend()
	if len(snapshot) == 0 {
		return b, nil
	}
	if err := json.Unmarshal(snapshot, &b.data); err != nil {
		return nil, fmt.Errorf("failed to restore snapshot: %w", err)
	}
	if b.data == nil {
		b.data = make(map[string]map[string]string)
	}
	return b, nil
}

// Snapshot serializes every namespace to bytes
func (b *Backend) Snapshot() ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return json.Marshal(b.data)
}

// Get returns the value stored under key
func (b *Backend) Get(_ context.Context, namespace, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.data[namespace][key]
	return value, ok, nil
}

// Set stores value under key
func (b *Backend) Set(_ context.Context, namespace, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	ns, ok := b.data[namespace]
	if !ok {
		ns = make(map[string]string)
		b.data[namespace] = ns
	}
	ns[key] = value
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (b *Backend) Delete(_ context.Context, namespace, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.data[namespace], key)
	return nil
}

// List returns a copy of every record in the namespace
func (b *Backend) List(_ context.Context, namespace string) (map[string]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]string, len(b.data[namespace]))
	for k, v := range b.data[namespace] {
		out[k] = v
	}
	return out, nil
}
