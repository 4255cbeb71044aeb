package backend

import (
	"context"

	"denguedash/internal/source"
)

// CleanupFunc releases resources owned by a source (e.g. a database handle).
type CleanupFunc func() error

// SourceResult contains the dataset source and optional cleanup function.
type SourceResult struct {
	Source  source.DatasetSource
	Cleanup CleanupFunc
}

// Factory creates dataset sources based on configuration.
type Factory interface {
	CreateSource(ctx context.Context, config Config) (*SourceResult, error)
}

// Config holds configuration for source creation.
type Config struct {
	Type SourceType

	// CSV specific
	CSVPath string

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

// SourceType represents the kind of dataset source.
type SourceType string

const (
	CSVSource    SourceType = "csv"
	SQLiteSource SourceType = "sqlite"
	SheetsSource SourceType = "sheets"
)

// String implements fmt.Stringer
func (st SourceType) String() string {
	return string(st)
}

// IsValid returns true if the source type is valid.
func (st SourceType) IsValid() bool {
	switch st {
	case CSVSource, SQLiteSource, SheetsSource:
		return true
	default:
		return false
	}
}
