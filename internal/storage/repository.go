package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"denguedash/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteSource reads the dengue dataset out of a local SQLite database.
// The table is managed by embedded migrations; runtime access is read-only.
type SQLiteSource struct {
	db *sql.DB
}

func NewSQLiteSource(dbPath string) (*SQLiteSource, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteSource{db: db}, nil
}

func (s *SQLiteSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load implements source.DatasetSource.
func (s *SQLiteSource) Load(ctx context.Context) ([]core.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT region, year, month, dengue_cases, dengue_deaths
		FROM dengue_records
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query dengue records: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var (
			region, month string
			year          int
			cases, deaths int
		)
		if err := rows.Scan(&region, &year, &month, &cases, &deaths); err != nil {
			return nil, fmt.Errorf("scan dengue record: %w", err)
		}
		rec := core.NewRecord(region, year, month, cases, deaths)
		if rec.MonthNum == 0 {
			slog.WarnContext(ctx, "Month outside fixed lookup, sorting in unknown bucket",
				"region", region, "year", year, "month", month)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dengue records: %w", err)
	}

	slog.InfoContext(ctx, "Loaded dataset from SQLite", "records", len(records))
	return records, nil
}
