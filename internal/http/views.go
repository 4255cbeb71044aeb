package http

import (
	"strconv"

	"denguedash/internal/core"
)

// Number of bar colors defined in the stylesheet (s0..s9).
const paletteSize = 10

// legendEntry pairs a region with its palette slot.
type legendEntry struct {
	Region string
	Color  int
}

// bar is one region's bar inside a year group.
type bar struct {
	Region string
	Value  string
	Width  int
	Color  int
}

type yearGroup struct {
	Year int
	Bars []bar
}

// chartView is a grouped bar chart: one group per year, one colored bar per
// region, widths scaled against the chart-wide maximum.
type chartView struct {
	Title  string
	Years  []yearGroup
	Legend []legendEntry
}

// chartsData drives the charts partial.
type chartsData struct {
	Status      core.Status
	ShowCases   bool
	ShowDeaths  bool
	CasesChart  chartView
	DeathsChart chartView
	Empty       bool
}

func buildChartsData(view core.View, status core.Status) chartsData {
	data := chartsData{Status: status}
	if status != core.StatusReady {
		return data
	}
	data.ShowCases = view.Mode.ShowCases()
	data.ShowDeaths = view.Mode.ShowDeaths()
	data.Empty = len(view.Groups) == 0

	colors := paletteFor(view.Groups)
	if data.ShowCases {
		data.CasesChart = buildChart("Yearly Dengue Cases by Region", view.Groups, colors,
			func(g core.Group) int { return g.Cases })
	}
	if data.ShowDeaths {
		data.DeathsChart = buildChart("Yearly Dengue Deaths by Region", view.Groups, colors,
			func(g core.Group) int { return g.Deaths })
	}
	return data
}

// paletteFor assigns each region a stable palette slot in group order.
func paletteFor(groups []core.Group) map[string]int {
	colors := map[string]int{}
	for _, g := range groups {
		if _, ok := colors[g.Region]; !ok {
			colors[g.Region] = len(colors) % paletteSize
		}
	}
	return colors
}

func buildChart(title string, groups []core.Group, colors map[string]int, metric func(core.Group) int) chartView {
	cv := chartView{Title: title}

	var max int
	for _, g := range groups {
		if v := metric(g); v > max {
			max = v
		}
	}

	var current *yearGroup
	for _, g := range groups {
		if current == nil || current.Year != g.Year {
			cv.Years = append(cv.Years, yearGroup{Year: g.Year})
			current = &cv.Years[len(cv.Years)-1]
		}
		current.Bars = append(current.Bars, bar{
			Region: g.Region,
			Value:  formatCount(metric(g)),
			Width:  barWidth(metric(g), max),
			Color:  colors[g.Region],
		})
	}

	seen := map[string]struct{}{}
	for _, g := range groups {
		if _, ok := seen[g.Region]; ok {
			continue
		}
		seen[g.Region] = struct{}{}
		cv.Legend = append(cv.Legend, legendEntry{Region: g.Region, Color: colors[g.Region]})
	}
	return cv
}

// barWidth maps a value to a rounded percent of the chart maximum, keeping
// tiny non-zero values visible.
func barWidth(value, max int) int {
	if max <= 0 || value <= 0 {
		return 0
	}
	width := (value*100 + max/2) / max
	if width > 0 && width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}

// formatCount renders an integer with comma grouping (12345 -> "12,345").
func formatCount(n int) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.Itoa(n)
	if len(s) > 3 {
		var out []byte
		lead := len(s) % 3
		if lead > 0 {
			out = append(out, s[:lead]...)
		}
		for i := lead; i < len(s); i += 3 {
			if len(out) > 0 {
				out = append(out, ',')
			}
			out = append(out, s[i:i+3]...)
		}
		s = string(out)
	}
	if neg {
		return "-" + s
	}
	return s
}
