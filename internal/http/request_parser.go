package http

import (
	"net/url"
	"strconv"
	"strings"

	"denguedash/internal/core"
)

// parseSelection extracts the filter state from query parameters. Multi-select
// widgets repeat their parameter (region=A&region=B).
func parseSelection(values url.Values) core.Selection {
	sel := core.Selection{
		Regions: cleanStrings(values["region"]),
		Months:  cleanStrings(values["month"]),
		Mode:    core.ParseDisplayMode(values.Get("mode")),
	}
	for _, v := range values["year"] {
		if y, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			sel.Years = append(sel.Years, y)
		}
	}
	return sel
}

func cleanStrings(in []string) []string {
	var out []string
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
