// Package backend selects and constructs the blob store backing the
// tracker, based on configuration.
package backend

import (
	"context"
	"fmt"

	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// Type identifies a storage backend.
type Type string

const (
	MemoryBackend   Type = "memory"
	SQLiteBackend   Type = "sqlite"
	PostgresBackend Type = "postgres"
)

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result holds the constructed store and its cleanup function.
type Result struct {
	Store   *storage.Store
	Cleanup CleanupFunc
}

// Factory constructs stores from configuration.
type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	return &Factory{logger: logger}
}

// CreateStore builds the store named by cfg.DataBackend.
func (f *Factory) CreateStore(ctx context.Context, cfg *config.Config) (*Result, error) {
	backend := Type(cfg.DataBackend)
	if !backend.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", backend)
	}

	switch backend {
	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: store, Cleanup: store.Close}, nil

	case PostgresBackend:
		store, err := storage.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres store: %w", err)
		}
		f.logger.Info("Initialized Postgres backend")
		return &Result{Store: store, Cleanup: store.Close}, nil

	default:
		f.logger.Info("Initialized memory backend")
		return &Result{Store: storage.NewMemoryStore(), Cleanup: nil}, nil
	}
}
