package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domerrors "github.com/garyellow/merit-linebot-go/internal/errors"
	"github.com/garyellow/merit-linebot-go/internal/merit"
)

// CountRecords returns the number of rows in merit_data.
func (db *DB) CountRecords(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM merit_data`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count merit records: %w", err)
	}
	return count, nil
}

// LoadRecords returns every row with string fields trimmed.
func (db *DB) LoadRecords(ctx context.Context) ([]merit.Record, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT University, Campus, Department, Program, Year, MinimumMerit, MaximumMerit
		FROM merit_data
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query merit records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []merit.Record
	for rows.Next() {
		var r merit.Record
		if err := rows.Scan(&r.University, &r.Campus, &r.Department, &r.Program,
			&r.Year, &r.MinimumMerit, &r.MaximumMerit); err != nil {
			return nil, fmt.Errorf("failed to scan merit record: %w", err)
		}
		records = append(records, r.Trimmed())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate merit records: %w", err)
	}

	slog.DebugContext(ctx, "merit records loaded",
		"count", len(records),
		"duration_ms", time.Since(start).Milliseconds())
	return records, nil
}

// InsertRecords appends records in a single transaction.
func (db *DB) InsertRecords(ctx context.Context, records []merit.Record) error {
	return db.writeRecords(ctx, records, false)
}

// ReplaceRecords deletes all rows and inserts records in a single transaction.
func (db *DB) ReplaceRecords(ctx context.Context, records []merit.Record) error {
	return db.writeRecords(ctx, records, true)
}

func (db *DB) writeRecords(ctx context.Context, records []merit.Record, replace bool) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if replace {
		if _, err := tx.ExecContext(ctx, `DELETE FROM merit_data`); err != nil {
			return fmt.Errorf("clear merit_data: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO merit_data (University, Campus, Department, Program, Year, MinimumMerit, MaximumMerit)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		r = r.Trimmed()
		if _, err := stmt.ExecContext(ctx, r.University, r.Campus, r.Department, r.Program,
			r.Year, r.MinimumMerit, r.MaximumMerit); err != nil {
			return fmt.Errorf("insert merit record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// SearchUniversities returns distinct university names containing term, sorted.
func (db *DB) SearchUniversities(ctx context.Context, term string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT University FROM merit_data
		WHERE University LIKE ? ESCAPE '\'
		ORDER BY University
	`, "%"+sanitizeSearchTerm(term)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search universities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan university: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SeedIfEmpty loads src into merit_data when the table has no rows.
// It returns the number of inserted rows. An empty table with a missing source
// yields errors.ErrSeedMissing; a malformed source yields its parse error and
// inserts nothing.
func (db *DB) SeedIfEmpty(ctx context.Context, src SeedSource) (int, error) {
	count, err := db.CountRecords(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		slog.DebugContext(ctx, "merit_data already populated, skipping seed", "count", count)
		return 0, nil
	}
	if src == nil {
		return 0, domerrors.ErrSeedMissing
	}

	records, err := ReadSeed(ctx, src)
	if err != nil {
		return 0, err
	}
	if err := db.InsertRecords(ctx, records); err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "merit_data seeded",
		"source", src.Name(),
		"rows", len(records))
	return len(records), nil
}

// ReadSeed opens src and parses it. A source that does not exist maps to ErrSeedMissing.
func ReadSeed(ctx context.Context, src SeedSource) ([]merit.Record, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		err = domerrors.NewSourceError(src.Name(), domerrors.OpOpen, err)
		if errors.Is(err, domerrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", domerrors.ErrSeedMissing, err)
		}
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	records, err := ParseCSV(rc)
	if err != nil {
		return nil, domerrors.NewSourceError(src.Name(), domerrors.OpParse, err)
	}
	return records, nil
}
