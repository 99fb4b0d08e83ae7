// Package storage persists merit records in SQLite and seeds them from a
// delimited file on first start.
package storage

import (
	"context"
	"io"

	"github.com/garyellow/merit-linebot-go/internal/merit"
)

// MeritRepository defines the record operations used by the server and the CLI.
type MeritRepository interface {
	CountRecords(ctx context.Context) (int, error)
	LoadRecords(ctx context.Context) ([]merit.Record, error)
	InsertRecords(ctx context.Context, records []merit.Record) error
	ReplaceRecords(ctx context.Context, records []merit.Record) error
	SearchUniversities(ctx context.Context, term string) ([]string, error)
}

// HealthRepository defines the interface for health check operations.
type HealthRepository interface {
	// Ping verifies database connection is alive.
	Ping(ctx context.Context) error
}

// SeedSource opens the delimited seed file.
// Open returns an error wrapping errors.ErrNotFound when the source does not exist.
type SeedSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	// Name identifies the source in logs and metrics ("file", "r2").
	Name() string
}

var (
	_ MeritRepository  = (*DB)(nil)
	_ HealthRepository = (*DB)(nil)
)
