package storage

import (
	"context"

	"github.com/yourname/sleeplog/internal"
	"github.com/yourname/sleeplog/internal/config"
)

// Open returns the backend named by cfg.StorageBackend.
func Open(ctx context.Context, cfg *config.Config, logger internal.Logger) (KeyValueStore, error) {
	switch cfg.StorageBackend {
	case "memory":
		return NewMemoryStore(), nil
	case "none":
		return NopStore{}, nil
	case "sqlite":
		return NewSQLiteStore(ctx, cfg.SQLitePath, logger)
	case "postgres":
		return NewPostgresStore(ctx, cfg.PostgresDSN, logger)
	case "mongo":
		return NewMongoStore(ctx, cfg.MongoURL, cfg.MongoDatabase, logger)
	default:
		return NewFileStore(cfg.KVFile, logger)
	}
}

// New is Open, except a backend that fails to open is replaced by NopStore so
// the process keeps running on in-memory state alone.
func New(ctx context.Context, cfg *config.Config, logger internal.Logger) KeyValueStore {
	kv, err := Open(ctx, cfg, logger)
	if err != nil {
		logger.Warnf("storage: %s backend unavailable, running in-memory only: %v", cfg.StorageBackend, err)
		return NopStore{}
	}
	return kv
}
