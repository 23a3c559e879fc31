package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Drivers accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverS3       = "s3"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
	S3          S3Options
}

// Open builds the Store selected by cfg.Driver. An empty driver means memory.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	var (
		store Store
		err   error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		store, err = OpenSQLite(ctx, cfg.SQLitePath)
	case DriverPostgres, "pgx":
		store, err = OpenPostgres(ctx, cfg.PostgresDSN)
	case DriverS3, "minio":
		store, err = NewS3(ctx, cfg.S3, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}
