// Package google loads the dengue dataset from a Google Sheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"denguedash/internal/core"
	"denguedash/internal/source"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Expected column order in the sheet, matching the CSV layout:
// Region | Year | Month | Dengue_Cases | Dengue_Deaths (header in row 1).
const dataRange = "A2:E"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ source.DatasetSource = (*Client)(nil)

// New creates a Sheets client for the given spreadsheet and sheet name
// (default "Dengue" when empty). Service-account credentials come from the
// environment: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, sheetName string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = "Dengue"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// newSheetsService initializes a read-only Sheets service from
// service-account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Load implements source.DatasetSource.
func (c *Client) Load(ctx context.Context) ([]core.Record, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!%s", c.sheetName, dataRange)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	var records []core.Record
	for i, row := range resp.Values {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", c.sheetName, i+2, err)
		}
		if rec.MonthNum == 0 {
			slog.WarnContext(ctx, "Month outside fixed lookup, sorting in unknown bucket",
				"row", i+2, "month", rec.Month)
		}
		records = append(records, rec)
	}

	slog.InfoContext(ctx, "Loaded dataset from Google Sheets",
		"spreadsheet_id", c.spreadsheetID, "sheet", c.sheetName, "records", len(records))
	return records, nil
}

func parseRow(row []any) (core.Record, error) {
	if len(row) < 5 {
		return core.Record{}, fmt.Errorf("expected 5 columns, got %d", len(row))
	}
	region := strings.TrimSpace(cellString(row[0]))
	month := strings.TrimSpace(cellString(row[2]))
	year, err := cellInt(row[1])
	if err != nil {
		return core.Record{}, fmt.Errorf("invalid Year: %w", err)
	}
	cases, err := cellInt(row[3])
	if err != nil {
		return core.Record{}, fmt.Errorf("invalid Dengue_Cases: %w", err)
	}
	deaths, err := cellInt(row[4])
	if err != nil {
		return core.Record{}, fmt.Errorf("invalid Dengue_Deaths: %w", err)
	}
	return core.NewRecord(region, year, month, cases, deaths), nil
}

func cellString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func cellInt(v any) (int, error) {
	switch t := v.(type) {
	case float64:
		return int(t), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(t))
	default:
		return 0, fmt.Errorf("unsupported cell type %T", v)
	}
}
