package testutil

import (
	"sync"
	"time"

	"accessfirst/internal/repository"
	"accessfirst/internal/repository/memory"
	"accessfirst/internal/store"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewObservedLogger creates a logger whose entries can be inspected
func NewObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// NewTestStore creates a schema-validating store over backend
func NewTestStore(backend repository.Backend, logger *zap.Logger) *store.Store {
	schemas, err := store.DefaultSchemas()
	if err != nil {
		panic(err)
	}
	return store.New(backend, "test", logger, store.WithSchemas(schemas))
}

// NewMemoryStore creates a store over a fresh memory backend
func NewMemoryStore() (*store.Store, *memory.Backend) {
	backend := memory.NewBackend()
	return NewTestStore(backend, NewTestLogger()), backend
}

// ManualTicker is a ticker driven by the test
type ManualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

// NewManualTicker creates a ticker that only fires on Tick
func NewManualTicker() *ManualTicker {
	return &ManualTicker{ch: make(chan time.Time)}
}

func (t *ManualTicker) C() <-chan time.Time {
	return t.ch
}

func (t *ManualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped reports whether Stop was called
func (t *ManualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Tick delivers one tick; it reports false if nobody received it in time
func (t *ManualTicker) Tick() bool {
	select {
	case t.ch <- time.Now():
		return true
	case <-time.After(time.Second):
		return false
	}
}
