package export

import (
	"strings"
	"testing"
	"time"

	"github.com/Rachel1809/gmaps-scraper/pkg/archive"
)

func TestDescribeRun(t *testing.T) {
	run := archive.Run{
		ID:         7,
		Keyword:    "coffee shops in hanoi",
		ArchivedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		RowCount:   42,
	}

	got := DescribeRun(run)
	for _, want := range []string{"#7", "coffee shops in hanoi", "42 rows"} {
		if !strings.Contains(got, want) {
			t.Errorf("DescribeRun = %q, missing %q", got, want)
		}
	}
}
