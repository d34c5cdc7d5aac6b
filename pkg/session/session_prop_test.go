package session

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/Rachel1809/gmaps-scraper/pkg/model"
	"github.com/Rachel1809/gmaps-scraper/pkg/protocol"
)

// Property: the log buffer never exceeds LogCap and always retains the
// most recent entries in order, regardless of the interleaving.
func TestLogBuffer_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New()
		lines := rapid.SliceOfN(rapid.StringMatching(`[a-z ]{0,20}`), 0, 3*LogCap).Draw(t, "lines")

		for _, l := range lines {
			s.AppendLog(l)
		}

		logs := s.Logs()
		if len(logs) > LogCap {
			t.Fatalf("log buffer grew to %d entries", len(logs))
		}
		expect := lines
		if len(expect) > LogCap {
			expect = expect[len(expect)-LogCap:]
		}
		if len(logs) != len(expect) {
			t.Fatalf("retained %d entries, want %d", len(logs), len(expect))
		}
		for i := range expect {
			if logs[i] != expect[i] {
				t.Fatalf("logs[%d] = %q, want %q", i, logs[i], expect[i])
			}
		}
	})
}

// Property: the skip-list is exactly the distinct identity-bearing links
// in first-appearance order, and ingesting more rows never removes an
// entry (the ledger grows monotonically within a session).
func TestSkipList_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New()
		if _, err := s.RequestStart("kw", false); err != nil {
			t.Fatal(err)
		}

		links := rapid.SliceOfN(
			rapid.OneOf(
				rapid.StringMatching(`https://maps/place/[a-c]`),
				rapid.Just(""),
				rapid.Just(model.SentinelNA),
			), 0, 40).Draw(t, "links")

		var prev []string
		for _, l := range links {
			s.Apply(protocol.Event{Type: protocol.EventRow, Row: model.Record{Link: l}})

			cur := s.SkipList()
			if len(cur) < len(prev) {
				t.Fatalf("ledger shrank: %v -> %v", prev, cur)
			}
			for i := range prev {
				if cur[i] != prev[i] {
					t.Fatalf("ledger reordered at %d: %v -> %v", i, prev, cur)
				}
			}
			prev = cur
		}

		seen := map[string]bool{}
		for _, l := range prev {
			if l == "" || l == model.SentinelNA {
				t.Fatalf("ledger contains non-identity %q", l)
			}
			if seen[l] {
				t.Fatalf("ledger contains duplicate %q", l)
			}
			seen[l] = true
		}
	})
}
