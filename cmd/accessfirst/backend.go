package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"accessfirst/internal/config"
	"accessfirst/internal/repository"
	"accessfirst/internal/repository/memory"
	"accessfirst/internal/repository/postgres"
	"accessfirst/internal/repository/redis"
	"accessfirst/internal/repository/sqlite"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// openBackend opens the storage backend selected by cfg. The returned
// close function releases it.
func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Backend, func() error, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn("Using in-memory storage, data is lost on exit")
		return memory.NewBackend(), func() error { return nil }, nil

	case config.DriverSQLite:
		repo, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("SQLite storage opened", zap.String("path", cfg.SQLitePath))
		return repo, repo.Close, nil

	case config.DriverPostgres:
		db, err := connectDatabase(ctx, cfg.DSN(), logger)
		if err != nil {
			return nil, nil, err
		}
		if err := runMigrations(db, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Database migrations completed")
		return postgres.NewKVRepo(db), db.Close, nil

	case config.DriverRedis:
		repo := redis.NewKVRepo(redis.Config{
			Address:  cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
		defer cancel()
		if err := repo.Ping(pingCtx); err != nil {
			repo.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("Redis storage connected", zap.String("addr", cfg.Redis.Addr))
		return repo, repo.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

const (
	dbConnectAttempts = 30
	dbRetryDelay      = 2 * time.Second
)

// connectDatabase connects to PostgreSQL, retrying until the server is up
// or ctx is done.
func connectDatabase(ctx context.Context, dsn string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := pingWithRetry(ctx, db, dbConnectAttempts, dbRetryDelay, logger); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// pingWithRetry pings db up to attempts times, waiting delay in between
func pingWithRetry(ctx context.Context, db *sql.DB, attempts int, delay time.Duration, logger *zap.Logger) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		logger.Warn("Database not reachable yet",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("gave up connecting to database: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
}

// runMigrations creates the kv_entries table
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}
