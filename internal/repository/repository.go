package repository

import "context"

// Backend is a raw string key-value store partitioned by namespace.
// Get reports found=false for a missing key; it returns an error only
// when the backend itself failed.
type Backend interface {
	Get(ctx context.Context, namespace, key string) (value string, found bool, err error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
	List(ctx context.Context, namespace string) (map[string]string, error)
}
