package core

import (
	"sort"
	"sync"
)

// Totals holds the sums computed over the dataset as loaded at startup.
// Appended rows do not move these numbers (spec for the summary tiles).
type Totals struct {
	Cases  int
	Deaths int
}

// Dataset is the ordered in-memory record collection for one session.
// Mutation is append-only. A session owns its Dataset exclusively, but the
// server handles that session's requests on concurrent goroutines, so the
// record slice is guarded by a mutex.
type Dataset struct {
	mu      sync.Mutex
	records []Record
	loaded  Totals
}

// NewDataset wraps the loaded records and captures the startup totals.
func NewDataset(records []Record) *Dataset {
	ds := &Dataset{records: records}
	for _, r := range records {
		ds.loaded.Cases += r.Cases
		ds.loaded.Deaths += r.Deaths
	}
	return ds
}

// Clone returns an independent copy for a new session.
func (ds *Dataset) Clone() *Dataset {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	records := make([]Record, len(ds.records))
	copy(records, ds.records)
	return &Dataset{records: records, loaded: ds.loaded}
}

// Len returns the number of records currently held.
func (ds *Dataset) Len() int {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return len(ds.records)
}

// LoadedTotals returns the totals over the startup dataset.
func (ds *Dataset) LoadedTotals() Totals { return ds.loaded }

// Append validates the record and adds it at the end. Existing order is
// untouched; displayed views pick the row up on their next refresh.
func (ds *Dataset) Append(r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.MonthNum = MonthNumber(r.Month)

	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.records = append(ds.records, r)
	return nil
}

// Records returns a copy of the records in insertion order.
func (ds *Dataset) Records() []Record {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	out := make([]Record, len(ds.records))
	copy(out, ds.records)
	return out
}

// Regions returns the distinct regions present, alphabetically sorted.
func (ds *Dataset) Regions() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range ds.Records() {
		if _, ok := seen[r.Region]; ok {
			continue
		}
		seen[r.Region] = struct{}{}
		out = append(out, r.Region)
	}
	sort.Strings(out)
	return out
}

// Years returns the distinct years present, ascending.
func (ds *Dataset) Years() []int {
	seen := map[int]struct{}{}
	var out []int
	for _, r := range ds.Records() {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		out = append(out, r.Year)
	}
	sort.Ints(out)
	return out
}

// TableRow is a display-ready record without the internal MonthNum key.
type TableRow struct {
	Region string
	Year   int
	Month  string
	Cases  int
	Deaths int
}

// SortedView returns all records ordered by Year then calendar month,
// projected without the sort key. The sort is stable: rows with equal
// (Year, MonthNum) keep their insertion order.
func (ds *Dataset) SortedView() []TableRow {
	records := ds.Records()
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Year != records[j].Year {
			return records[i].Year < records[j].Year
		}
		return records[i].MonthNum < records[j].MonthNum
	})
	out := make([]TableRow, len(records))
	for i, r := range records {
		out[i] = TableRow{
			Region: r.Region,
			Year:   r.Year,
			Month:  r.Month,
			Cases:  r.Cases,
			Deaths: r.Deaths,
		}
	}
	return out
}
