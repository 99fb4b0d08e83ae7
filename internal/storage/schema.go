package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates the merit_data table and its lookup index.
// Column names follow the seed file header.
func InitSchema(ctx context.Context, db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS merit_data (
		University TEXT NOT NULL,
		Campus TEXT NOT NULL DEFAULT '',
		Department TEXT NOT NULL,
		Program TEXT NOT NULL,
		Year INTEGER NOT NULL,
		MinimumMerit REAL NOT NULL,
		MaximumMerit REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_merit_lookup ON merit_data(University, Department, Program, Year);
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create merit_data table: %w", err)
	}

	return nil
}
