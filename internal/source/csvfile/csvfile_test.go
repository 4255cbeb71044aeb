package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dengue.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestLoadValidFile(t *testing.T) {
	path := writeTemp(t, strings.Join([]string{
		"Region,Year,Month,Dengue_Cases,Dengue_Deaths",
		"NCR,2016,January,100,2",
		"CAR,2017,December,50,1",
	}, "\n"))

	records, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Region != "NCR" || records[0].MonthNum != 1 || records[0].Cases != 100 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[1].MonthNum != 12 {
		t.Fatalf("expected December -> 12, got %d", records[1].MonthNum)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope.csv")).Load(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadMissingColumn(t *testing.T) {
	path := writeTemp(t, "Region,Year,Month,Dengue_Cases\nNCR,2016,January,100")
	_, err := New(path).Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "Dengue_Deaths") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestLoadMalformedNumber(t *testing.T) {
	path := writeTemp(t, strings.Join([]string{
		"Region,Year,Month,Dengue_Cases,Dengue_Deaths",
		"NCR,notayear,January,100,2",
	}, "\n"))
	if _, err := New(path).Load(context.Background()); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadUnknownMonthKept(t *testing.T) {
	path := writeTemp(t, strings.Join([]string{
		"Region,Year,Month,Dengue_Cases,Dengue_Deaths",
		"NCR,2016,Undecimber,5,0",
	}, "\n"))
	records, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 || records[0].MonthNum != 0 {
		t.Fatalf("expected kept record with MonthNum 0, got %+v", records)
	}
}
