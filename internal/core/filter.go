package core

import "sort"

// DisplayMode is the user's chart metric choice.
type DisplayMode string

const (
	ModeUnset  DisplayMode = "-- Select --"
	ModeCases  DisplayMode = "Dengue Cases"
	ModeDeaths DisplayMode = "Dengue Deaths"
	ModeBoth   DisplayMode = "Both"
)

// DisplayModes lists the radio options in their fixed order.
var DisplayModes = []DisplayMode{ModeUnset, ModeCases, ModeDeaths, ModeBoth}

// ParseDisplayMode maps a form value to a mode, defaulting to unset.
func ParseDisplayMode(s string) DisplayMode {
	switch DisplayMode(s) {
	case ModeCases, ModeDeaths, ModeBoth:
		return DisplayMode(s)
	default:
		return ModeUnset
	}
}

// ShowCases reports whether the mode includes the cases chart.
func (m DisplayMode) ShowCases() bool { return m == ModeCases || m == ModeBoth }

// ShowDeaths reports whether the mode includes the deaths chart.
func (m DisplayMode) ShowDeaths() bool { return m == ModeDeaths || m == ModeBoth }

// Selection is the transient filter state for one interaction.
type Selection struct {
	Regions []string
	Years   []int
	Months  []string
	Mode    DisplayMode
}

// Status tells the rendering layer what to do with an Apply result.
type Status string

const (
	// StatusShowAll: region or year filter is empty, fall back to the
	// full-dataset notice with no aggregation.
	StatusShowAll Status = "show-all"
	// StatusPromptMode: filters are set but no metric was chosen yet.
	StatusPromptMode Status = "prompt-for-mode"
	// StatusReady: aggregated groups are available for charting.
	StatusReady Status = "ready"
)

// Group is one (Year, Region) aggregation bucket with summed counts.
type Group struct {
	Year   int
	Region string
	Cases  int
	Deaths int
}

// View is the chart-ready aggregation outcome.
type View struct {
	Groups []Group
	Mode   DisplayMode
}

// Apply filters the dataset by the selection and aggregates per (Year, Region).
// Month filtering only narrows an already region+year filtered set. Apply is a
// total function: an empty match simply yields zero groups.
func Apply(ds *Dataset, sel Selection) (View, Status) {
	if len(sel.Regions) == 0 || len(sel.Years) == 0 {
		return View{}, StatusShowAll
	}

	regions := stringSet(sel.Regions)
	years := intSet(sel.Years)
	var filtered []Record
	for _, r := range ds.Records() {
		if _, ok := regions[r.Region]; !ok {
			continue
		}
		if _, ok := years[r.Year]; !ok {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(sel.Months) > 0 {
		months := stringSet(sel.Months)
		kept := filtered[:0]
		for _, r := range filtered {
			if _, ok := months[r.Month]; ok {
				kept = append(kept, r)
			}
		}
		filtered = kept
	}

	if sel.Mode == ModeUnset || sel.Mode == "" {
		return View{}, StatusPromptMode
	}

	type key struct {
		year   int
		region string
	}
	sums := map[key]*Group{}
	var order []key
	for _, r := range filtered {
		k := key{r.Year, r.Region}
		g, ok := sums[k]
		if !ok {
			g = &Group{Year: r.Year, Region: r.Region}
			sums[k] = g
			order = append(order, k)
		}
		g.Cases += r.Cases
		g.Deaths += r.Deaths
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].year != order[j].year {
			return order[i].year < order[j].year
		}
		return order[i].region < order[j].region
	})
	groups := make([]Group, 0, len(order))
	for _, k := range order {
		groups = append(groups, *sums[k])
	}
	return View{Groups: groups, Mode: sel.Mode}, StatusReady
}

func stringSet(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, v := range in {
		out[v] = struct{}{}
	}
	return out
}

func intSet(in []int) map[int]struct{} {
	out := make(map[int]struct{}, len(in))
	for _, v := range in {
		out[v] = struct{}{}
	}
	return out
}
