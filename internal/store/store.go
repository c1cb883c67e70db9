package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"accessfirst/internal/domain"
	"accessfirst/internal/repository"

	"go.uber.org/zap"
)

// DefaultTimeout bounds every backend call
const DefaultTimeout = 2 * time.Second

// Store is a typed JSON view over one namespace of a Backend.
// Backend and decoding faults never escape: they are logged and the
// caller's default is used instead.
type Store struct {
	backend   repository.Backend
	namespace string
	logger    *zap.Logger
	timeout   time.Duration
	schemas   *SchemaSet
}

// Option configures a Store
type Option func(*Store)

// WithTimeout overrides DefaultTimeout
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithSchemas enables validation of stored records
func WithSchemas(set *SchemaSet) Option {
	return func(s *Store) {
		s.schemas = set
	}
}

// New creates a store bound to namespace
func New(backend repository.Backend, namespace string, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		namespace: namespace,
		logger:    logger.With(zap.String("namespace", namespace)),
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Namespace returns the namespace this store writes to
func (s *Store) Namespace() string {
	return s.namespace
}

// Fetch decodes the value under key. It reports found=false with a nil
// error only when the key is missing. A backend fault is returned wrapped
// in domain.ErrStorageUnavailable, an undecodable value in domain.ErrCorrupted.
func Fetch[T any](s *Store, key string) (value T, found bool, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	raw, ok, err := s.backend.Get(ctx, s.namespace, key)
	if err != nil {
		return value, false, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	if !ok {
		return value, false, nil
	}

	if err := validate(s.schemas.For(key), raw); err != nil {
		return value, false, fmt.Errorf("%w: %v", domain.ErrCorrupted, err)
	}

	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		var zero T
		return zero, false, fmt.Errorf("%w: %v", domain.ErrCorrupted, err)
	}

	return value, true, nil
}

// Lookup is Fetch with faults logged. found is false when the key is
// missing, unreadable, fails its schema or cannot be decoded into T.
func Lookup[T any](s *Store, key string) (value T, found bool) {
	value, found, err := Fetch[T](s, key)
	switch {
	case errors.Is(err, domain.ErrStorageUnavailable):
		s.logger.Warn("Failed to read from storage, using default",
			zap.String("key", key),
			zap.Error(err),
		)
	case err != nil:
		s.logger.Warn("Stored value corrupted, using default",
			zap.String("key", key),
			zap.Error(err),
		)
	case !found:
		s.logger.Debug("Key not found, using default", zap.String("key", key))
	}
	return value, found
}

// Get is Lookup with a fallback
func Get[T any](s *Store, key string, def T) T {
	if value, ok := Lookup[T](s, key); ok {
		return value
	}
	return def
}

// Set serializes value and writes it under key. A failed write is
// logged and otherwise ignored; callers keep their in-memory state.
func (s *Store) Set(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("Failed to encode value", zap.String("key", key), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.backend.Set(ctx, s.namespace, key, string(data)); err != nil {
		s.logger.Warn("Failed to write to storage, keeping in-memory value",
			zap.String("key", key),
			zap.Error(fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)),
		)
	}
}

// Remove deletes key; failures are logged
func (s *Store) Remove(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.backend.Delete(ctx, s.namespace, key); err != nil {
		s.logger.Warn("Failed to remove from storage",
			zap.String("key", key),
			zap.Error(fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)),
		)
	}
}
