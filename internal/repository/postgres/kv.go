package postgres

import (
	"context"
	"database/sql"
	"errors"
)

// KVRepo implements repository.Backend on the kv_entries table
type KVRepo struct {
	db *sql.DB
}

// NewKVRepo creates a new key-value repository
func NewKVRepo(db *sql.DB) *KVRepo {
	return &KVRepo{db: db}
}

// Get returns the value stored under key
func (r *KVRepo) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var value string
	query := `SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2`
	err := r.db.QueryRowContext(ctx, query, namespace, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

// Set upserts value under key
func (r *KVRepo) Set(ctx context.Context, namespace, key, value string) error {
	query := `
		INSERT INTO kv_entries (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, namespace, key, value)
	return err
}

// Delete removes key
func (r *KVRepo) Delete(ctx context.Context, namespace, key string) error {
	query := `DELETE FROM kv_entries WHERE namespace = $1 AND key = $2`
	_, err := r.db.ExecContext(ctx, query, namespace, key)
	return err
}

// List returns every record of the namespace
func (r *KVRepo) List(ctx context.Context, namespace string) (map[string]string, error) {
	query := `
		SELECT key, value
		FROM kv_entries
		WHERE namespace = $1
		ORDER BY key
	`

	rows, err := r.db.QueryContext(ctx, query, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
