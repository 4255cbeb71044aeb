package core

import (
	"errors"
	"strings"
)

// Placeholder values used by the append form selects.
const (
	PlaceholderRegion = "-- Select Region --"
	PlaceholderYear   = "-- Select Year --"
	PlaceholderMonth  = "-- Select Month --"
)

// Year range offered by the append form.
const (
	MinFormYear = 2010
	MaxFormYear = 2030
)

// MonthNames lists the twelve month names in calendar order.
var MonthNames = []string{
	"January", "February", "March", "April",
	"May", "June", "July", "August",
	"September", "October", "November", "December",
}

var monthNumbers = map[string]int{
	"January": 1, "February": 2, "March": 3, "April": 4,
	"May": 5, "June": 6, "July": 7, "August": 8,
	"September": 9, "October": 10, "November": 11, "December": 12,
}

// MonthNumber returns the 1-based calendar index for a month name.
// Unknown names return 0, the sort bucket that orders before January.
func MonthNumber(name string) int {
	return monthNumbers[name]
}

// Record is one region/year/month observation of dengue cases and deaths.
// MonthNum is a derived sort key and is never rendered.
type Record struct {
	Region   string
	Year     int
	Month    string
	Cases    int
	Deaths   int
	MonthNum int
}

var (
	ErrRegionNotSelected = errors.New("region not selected")
	ErrYearNotSelected   = errors.New("year not selected")
	ErrMonthNotSelected  = errors.New("month not selected")
	ErrUnknownMonth      = errors.New("unknown month name")
	ErrNegativeCount     = errors.New("counts must be zero or greater")
)

// NewRecord builds a Record with MonthNum derived from the month name.
func NewRecord(region string, year int, month string, cases, deaths int) Record {
	return Record{
		Region:   region,
		Year:     year,
		Month:    month,
		Cases:    cases,
		Deaths:   deaths,
		MonthNum: MonthNumber(month),
	}
}

// Validate enforces the append rules: no placeholders, a month from the fixed
// lookup, and non-negative counts. Rows loaded from a source bypass this.
func (r Record) Validate() error {
	region := strings.TrimSpace(r.Region)
	if region == "" || region == PlaceholderRegion {
		return ErrRegionNotSelected
	}
	if r.Year == 0 {
		return ErrYearNotSelected
	}
	if r.Month == "" || r.Month == PlaceholderMonth {
		return ErrMonthNotSelected
	}
	if MonthNumber(r.Month) == 0 {
		return ErrUnknownMonth
	}
	if r.Cases < 0 || r.Deaths < 0 {
		return ErrNegativeCount
	}
	return nil
}
