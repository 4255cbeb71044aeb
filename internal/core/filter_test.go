package core

import (
	"reflect"
	"testing"
)

func TestApplyShowAllWhenRegionsOrYearsEmpty(t *testing.T) {
	ds := NewDataset(sampleRecords())
	cases := []Selection{
		{},
		{Regions: []string{"NCR"}},
		{Years: []int{2016}},
		{Years: []int{2016}, Months: []string{"January"}, Mode: ModeBoth},
	}
	for i, sel := range cases {
		if _, status := Apply(ds, sel); status != StatusShowAll {
			t.Fatalf("case %d: expected show-all, got %s", i, status)
		}
	}
}

func TestApplyPromptsForMode(t *testing.T) {
	ds := NewDataset(sampleRecords())
	sel := Selection{Regions: []string{"NCR"}, Years: []int{2016}}
	view, status := Apply(ds, sel)
	if status != StatusPromptMode {
		t.Fatalf("expected prompt-for-mode, got %s", status)
	}
	if len(view.Groups) != 0 {
		t.Fatalf("unset mode returned chart data: %+v", view.Groups)
	}
}

func TestApplyAggregatesPerYearRegion(t *testing.T) {
	ds := NewDataset([]Record{
		NewRecord("A", 2016, "January", 10, 1),
		NewRecord("B", 2016, "January", 20, 2),
	})
	view, status := Apply(ds, Selection{
		Regions: []string{"A", "B"},
		Years:   []int{2016},
		Mode:    ModeBoth,
	})
	if status != StatusReady {
		t.Fatalf("expected ready, got %s", status)
	}
	want := []Group{
		{Year: 2016, Region: "A", Cases: 10, Deaths: 1},
		{Year: 2016, Region: "B", Cases: 20, Deaths: 2},
	}
	if !reflect.DeepEqual(view.Groups, want) {
		t.Fatalf("groups:\n got %+v\nwant %+v", view.Groups, want)
	}
	if view.Mode != ModeBoth {
		t.Fatalf("expected mode tag Both, got %s", view.Mode)
	}
}

func TestApplyConservesSums(t *testing.T) {
	ds := NewDataset(sampleRecords())
	sel := Selection{Regions: []string{"NCR", "CAR"}, Years: []int{2016, 2017}, Mode: ModeCases}
	view, status := Apply(ds, sel)
	if status != StatusReady {
		t.Fatalf("expected ready, got %s", status)
	}
	var aggregated, raw int
	for _, g := range view.Groups {
		aggregated += g.Cases
	}
	for _, r := range ds.Records() {
		raw += r.Cases
	}
	if aggregated != raw {
		t.Fatalf("aggregation lost values: %d != %d", aggregated, raw)
	}
}

func TestApplyMonthFilterNarrows(t *testing.T) {
	ds := NewDataset(sampleRecords())
	view, status := Apply(ds, Selection{
		Regions: []string{"NCR", "CAR"},
		Years:   []int{2016, 2017},
		Months:  []string{"January"},
		Mode:    ModeDeaths,
	})
	if status != StatusReady {
		t.Fatalf("expected ready, got %s", status)
	}
	want := []Group{
		{Year: 2016, Region: "NCR", Cases: 10},
		{Year: 2017, Region: "NCR", Cases: 40, Deaths: 1},
	}
	if !reflect.DeepEqual(view.Groups, want) {
		t.Fatalf("groups:\n got %+v\nwant %+v", view.Groups, want)
	}
}

func TestApplyEmptyMatchYieldsZeroGroups(t *testing.T) {
	ds := NewDataset(sampleRecords())
	view, status := Apply(ds, Selection{
		Regions: []string{"Nowhere"},
		Years:   []int{2016},
		Mode:    ModeCases,
	})
	if status != StatusReady {
		t.Fatalf("expected ready, got %s", status)
	}
	if len(view.Groups) != 0 {
		t.Fatalf("expected zero groups, got %+v", view.Groups)
	}
}

func TestParseDisplayMode(t *testing.T) {
	if got := ParseDisplayMode("Dengue Cases"); got != ModeCases {
		t.Fatalf("got %s", got)
	}
	if got := ParseDisplayMode("bogus"); got != ModeUnset {
		t.Fatalf("got %s", got)
	}
	if got := ParseDisplayMode(""); got != ModeUnset {
		t.Fatalf("got %s", got)
	}
	if !ModeBoth.ShowCases() || !ModeBoth.ShowDeaths() {
		t.Fatalf("Both must show both charts")
	}
	if ModeCases.ShowDeaths() || ModeDeaths.ShowCases() {
		t.Fatalf("single modes must not cross over")
	}
}
