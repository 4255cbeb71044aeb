package backend

import (
	"context"
	"fmt"
	"log/slog"

	"denguedash/internal/source/csvfile"
	gsheet "denguedash/internal/source/google"
	"denguedash/internal/storage"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new source factory.
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateSource implements Factory.CreateSource.
func (f *DefaultFactory) CreateSource(ctx context.Context, config Config) (*SourceResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid source type: %s", config.Type)
	}

	switch config.Type {
	case CSVSource:
		f.logger.Info("Initialized CSV source", "path", config.CSVPath)
		return &SourceResult{Source: csvfile.New(config.CSVPath)}, nil

	case SQLiteSource:
		repo, err := storage.NewSQLiteSource(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite source: %w", err)
		}
		f.logger.Info("Initialized SQLite source", "db_path", config.SQLiteDBPath)
		return &SourceResult{Source: repo, Cleanup: repo.Close}, nil

	case SheetsSource:
		cli, err := gsheet.New(ctx, config.GoogleSpreadsheetID, config.GoogleSheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets source: %w", err)
		}
		f.logger.Info("Initialized Google Sheets source",
			"spreadsheet_id", config.GoogleSpreadsheetID, "sheet", config.GoogleSheetName)
		return &SourceResult{Source: cli}, nil

	default:
		return nil, fmt.Errorf("unsupported source type: %s", config.Type)
	}
}
