package ui

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/Rachel1809/gmaps-scraper/pkg/model"
)

// truncateCells truncates a string to max visual width (cells), adding
// suffix if needed. Uses go-runewidth to handle wide characters
// correctly.
func truncateCells(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}

	width := runewidth.StringWidth(s)
	if width <= maxWidth {
		return s
	}

	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}

	return runewidth.Truncate(s, maxWidth-suffixWidth, "") + suffix
}

// padCells pads a string to exactly the given visual width.
func padCells(s string, width int) string {
	s = truncateCells(s, width, "…")
	for runewidth.StringWidth(s) < width {
		s += " "
	}
	return s
}

// statusBadge renders the run state with its themed style.
func (t Theme) statusBadge(status model.RunStatus) string {
	switch status {
	case model.StatusRunning:
		return t.BadgeRunning.Render("● RUNNING")
	case model.StatusStopped:
		return t.BadgeStopped.Render("■ STOPPED")
	case model.StatusOffline:
		return t.BadgeOffline.Render("✗ OFFLINE")
	default:
		return t.BadgeIdle.Render("○ IDLE")
	}
}

// summaryLine renders one record for the results pane: the name, then
// whichever of rating and address fit.
func summaryLine(r model.Record, width int) string {
	name := r.Name
	if name == "" || name == model.SentinelNA {
		name = "(unnamed)"
	}
	line := name
	if r.Rating != "" && r.Rating != model.SentinelNA {
		line = fmt.Sprintf("%s  ★%s", line, r.Rating)
	}
	if r.Address != "" && r.Address != model.SentinelNA {
		line = fmt.Sprintf("%s  %s", line, r.Address)
	}
	return truncateCells(line, width, "…")
}
