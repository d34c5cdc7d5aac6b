// Package model defines the core data types shared across gmctl:
// collected listing records, run status, and the export column mask.
package model

import "strings"

// SentinelNA is the placeholder the worker emits for fields it could not
// extract. A record whose link is the sentinel has no usable identity.
const SentinelNA = "N/A"

// Record is one collected map listing. Records are append-only within a
// run and never mutated in place; uniqueness is the Dedup Ledger's job,
// not the buffer's.
type Record struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
	Rating  string `json:"rating"`
	Link    string `json:"link"`
}

// HasIdentity reports whether the record carries a usable natural
// identifier (a non-empty, non-sentinel link).
func (r Record) HasIdentity() bool {
	return r.Link != "" && r.Link != SentinelNA
}

// Field returns the record value for a canonical column name.
func (r Record) Field(column string) string {
	switch column {
	case ColumnName:
		return r.Name
	case ColumnAddress:
		return r.Address
	case ColumnPhone:
		return r.Phone
	case ColumnWebsite:
		return r.Website
	case ColumnRating:
		return r.Rating
	case ColumnLink:
		return r.Link
	default:
		return ""
	}
}

// RunStatus is the worker-asserted lifecycle state of a collection run.
// The worker is the authority; the client applies these verbatim.
type RunStatus string

const (
	StatusIdle    RunStatus = "IDLE"
	StatusRunning RunStatus = "RUNNING"
	StatusStopped RunStatus = "STOPPED"
	StatusOffline RunStatus = "OFFLINE"
)

// ParseRunStatus maps a wire status payload to a RunStatus. Unknown
// payloads come back ok=false so the caller can drop the frame.
func ParseRunStatus(s string) (RunStatus, bool) {
	switch RunStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusIdle:
		return StatusIdle, true
	case StatusRunning:
		return StatusRunning, true
	case StatusStopped:
		return StatusStopped, true
	case StatusOffline:
		return StatusOffline, true
	default:
		return "", false
	}
}

// String returns a human-readable label for the status.
func (s RunStatus) String() string {
	return string(s)
}

// Canonical column names, in export order.
const (
	ColumnName    = "name"
	ColumnAddress = "address"
	ColumnPhone   = "phone"
	ColumnWebsite = "website"
	ColumnRating  = "rating"
	ColumnLink    = "link"
)

// CanonicalColumns returns the fixed column order used by every export
// surface. Callers must not mutate the returned slice.
func CanonicalColumns() []string {
	return canonicalColumns
}

var canonicalColumns = []string{
	ColumnName,
	ColumnAddress,
	ColumnPhone,
	ColumnWebsite,
	ColumnRating,
	ColumnLink,
}

// ColumnMask maps a canonical column name to its visibility. The mask's
// lifecycle is independent of sessions and records; it persists across
// runs via the config file.
type ColumnMask map[string]bool

// DefaultColumnMask returns a mask with every canonical column enabled.
func DefaultColumnMask() ColumnMask {
	m := make(ColumnMask, len(canonicalColumns))
	for _, c := range canonicalColumns {
		m[c] = true
	}
	return m
}

// Enabled reports whether the column is visible. Columns absent from the
// mask are treated as disabled.
func (m ColumnMask) Enabled(column string) bool {
	return m[column]
}

// EnabledColumns returns the visible columns in canonical order.
func (m ColumnMask) EnabledColumns() []string {
	out := make([]string, 0, len(canonicalColumns))
	for _, c := range canonicalColumns {
		if m[c] {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns an independent copy of the mask.
func (m ColumnMask) Clone() ColumnMask {
	out := make(ColumnMask, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// NormalizeKeyword trims the search phrase the way the session protocol
// compares it. Two keywords that normalize equal address the same run.
func NormalizeKeyword(keyword string) string {
	return strings.TrimSpace(keyword)
}
