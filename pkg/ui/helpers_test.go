package ui

import (
	"strings"
	"testing"

	"github.com/Rachel1809/gmaps-scraper/pkg/model"
)

func TestTruncateCells(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		maxWidth int
		suffix   string
		want     string
	}{
		{"fits", "hello", 10, "…", "hello"},
		{"exact", "hello", 5, "…", "hello"},
		{"truncated", "hello world", 8, "…", "hello w…"},
		{"zero width", "hello", 0, "…", ""},
		{"wide runes", "日本語テスト", 7, "…", "日本語…"},
		{"suffix wider than budget", "hello world", 1, "...", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateCells(tt.in, tt.maxWidth, tt.suffix)
			if got != tt.want {
				t.Errorf("truncateCells(%q, %d, %q) = %q, want %q",
					tt.in, tt.maxWidth, tt.suffix, got, tt.want)
			}
		})
	}
}

func TestPadCells(t *testing.T) {
	got := padCells("ab", 5)
	if got != "ab   " {
		t.Errorf("padCells = %q, want %q", got, "ab   ")
	}
	if len([]rune(padCells("日本語テスト", 5))) == 0 {
		t.Error("padCells returned empty for wide input")
	}
}

func TestStatusBadge(t *testing.T) {
	theme := DefaultTheme()
	tests := []struct {
		status model.RunStatus
		want   string
	}{
		{model.StatusIdle, "IDLE"},
		{model.StatusRunning, "RUNNING"},
		{model.StatusStopped, "STOPPED"},
		{model.StatusOffline, "OFFLINE"},
	}
	for _, tt := range tests {
		if got := theme.statusBadge(tt.status); !strings.Contains(got, tt.want) {
			t.Errorf("statusBadge(%s) = %q, missing %q", tt.status, got, tt.want)
		}
	}
}

func TestSummaryLine(t *testing.T) {
	r := model.Record{
		Name:    "Cafe A",
		Address: "1 Main St",
		Rating:  "4.5",
		Link:    "https://maps.google.com/?cid=1",
	}
	got := summaryLine(r, 60)
	for _, want := range []string{"Cafe A", "★4.5", "1 Main St"} {
		if !strings.Contains(got, want) {
			t.Errorf("summaryLine = %q, missing %q", got, want)
		}
	}

	na := model.Record{Name: model.SentinelNA, Address: model.SentinelNA, Rating: model.SentinelNA}
	got = summaryLine(na, 60)
	if strings.Contains(got, model.SentinelNA) {
		t.Errorf("summaryLine leaked sentinel values: %q", got)
	}
	if !strings.Contains(got, "(unnamed)") {
		t.Errorf("summaryLine = %q, want unnamed placeholder", got)
	}
}
