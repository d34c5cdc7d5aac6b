package archive

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Rachel1809/gmaps-scraper/pkg/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive.sqlite3"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveRun_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	records := []model.Record{
		{Name: "A", Address: "1 First St", Rating: "4.1", Link: "https://maps/place/a"},
		{Name: "B", Phone: "+1 555", Rating: "N/A", Link: "https://maps/place/b"},
		{Name: "C", Website: "c.example", Link: "N/A"},
	}

	runID, err := s.SaveRun("Coffee NYC", records)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if runID == 0 {
		t.Fatal("expected non-zero run id")
	}

	got, err := s.Records(runID)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("got %d records, want %d", len(got), len(records))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], records[i])
		}
	}
}

func TestSaveRun_EmptyIsSkipped(t *testing.T) {
	s := openTestStore(t)

	runID, err := s.SaveRun("Coffee NYC", nil)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if runID != 0 {
		t.Errorf("empty run should be skipped, got id %d", runID)
	}

	runs, err := s.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("archive should stay empty, has %d runs", len(runs))
	}
}

func TestRuns_NewestFirstWithCounts(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveRun("Coffee NYC", []model.Record{{Name: "A", Link: "https://a"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveRun("Gyms NYC", []model.Record{
		{Name: "B", Link: "https://b"},
		{Name: "C", Link: "https://c"},
	}); err != nil {
		t.Fatal(err)
	}

	runs, err := s.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs", len(runs))
	}
	if runs[0].Keyword != "Gyms NYC" || runs[0].RowCount != 2 {
		t.Errorf("newest run = %+v", runs[0])
	}
	if runs[1].Keyword != "Coffee NYC" || runs[1].RowCount != 1 {
		t.Errorf("oldest run = %+v", runs[1])
	}
}

func TestRecords_UnknownRun(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Records(42)
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("error = %v, want ErrRunNotFound", err)
	}
}
