// Package csvfile loads the dengue dataset from a local CSV file.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"denguedash/internal/core"
)

// Required columns. Extra columns in the file are ignored.
var requiredColumns = []string{"Region", "Year", "Month", "Dengue_Cases", "Dengue_Deaths"}

type Source struct {
	path string
}

func New(path string) *Source {
	return &Source{path: path}
}

// Load reads the whole file into records. Any read or parse failure is
// returned as a single wrapped error so the caller can halt startup with a
// readable message.
func (s *Source) Load(ctx context.Context) ([]core.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", s.path, err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", s.path, err)
	}

	var records []core.Record
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", s.path, line, err)
		}
		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", s.path, line, err)
		}
		if rec.MonthNum == 0 {
			slog.WarnContext(ctx, "Month outside fixed lookup, sorting in unknown bucket",
				"line", line, "month", rec.Month)
		}
		records = append(records, rec)
	}

	slog.InfoContext(ctx, "Loaded dataset from CSV", "path", s.path, "records", len(records))
	return records, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}
	return idx, nil
}

func parseRow(row []string, idx map[string]int) (core.Record, error) {
	field := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	year, err := strconv.Atoi(field("Year"))
	if err != nil {
		return core.Record{}, fmt.Errorf("invalid Year %q", field("Year"))
	}
	cases, err := strconv.Atoi(field("Dengue_Cases"))
	if err != nil {
		return core.Record{}, fmt.Errorf("invalid Dengue_Cases %q", field("Dengue_Cases"))
	}
	deaths, err := strconv.Atoi(field("Dengue_Deaths"))
	if err != nil {
		return core.Record{}, fmt.Errorf("invalid Dengue_Deaths %q", field("Dengue_Deaths"))
	}
	return core.NewRecord(field("Region"), year, field("Month"), cases, deaths), nil
}
