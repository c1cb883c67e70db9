package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "accessfirst:"

// Config holds connection settings
type Config struct {
	Address  string
	Password string
	DB       int
}

// KVRepo implements repository.Backend with one Redis hash per namespace
type KVRepo struct {
	client *redis.Client
}

// NewKVRepo creates a repository with its own client
func NewKVRepo(cfg Config) *KVRepo {
	return NewKVRepoWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}))
}

// NewKVRepoWithClient wraps an existing client
func NewKVRepoWithClient(client *redis.Client) *KVRepo {
	return &KVRepo{client: client}
}

// Ping checks connectivity
func (r *KVRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client
func (r *KVRepo) Close() error {
	return r.client.Close()
}

func hashKey(namespace string) string {
	return keyPrefix + namespace
}

// Get returns the value stored under key
func (r *KVRepo) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	value, err := r.client.HGet(ctx, hashKey(namespace), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key
func (r *KVRepo) Set(ctx context.Context, namespace, key, value string) error {
	return r.client.HSet(ctx, hashKey(namespace), key, value).Err()
}

// Delete removes key
func (r *KVRepo) Delete(ctx context.Context, namespace, key string) error {
	return r.client.HDel(ctx, hashKey(namespace), key).Err()
}

// List returns every record of the namespace
func (r *KVRepo) List(ctx context.Context, namespace string) (map[string]string, error) {
	return r.client.HGetAll(ctx, hashKey(namespace)).Result()
}
