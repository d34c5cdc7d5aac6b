package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the adaptive color palette and the styles derived from
// it. Styles are created once at startup instead of per-frame.
type Theme struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Run states
	Idle    lipgloss.AdaptiveColor
	Running lipgloss.AdaptiveColor
	Stopped lipgloss.AdaptiveColor
	Offline lipgloss.AdaptiveColor

	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor

	Base       lipgloss.Style
	Title      lipgloss.Style
	Header     lipgloss.Style
	Panel      lipgloss.Style
	PanelFocus lipgloss.Style
	Flash      lipgloss.Style
	FlashError lipgloss.Style
	HintKey    lipgloss.Style
	HintText   lipgloss.Style

	BadgeIdle    lipgloss.Style
	BadgeRunning lipgloss.Style
	BadgeStopped lipgloss.Style
	BadgeOffline lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
// Light mode colors are darkened for contrast on white backgrounds.
func DefaultTheme() Theme {
	t := Theme{
		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Idle:    lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Running: lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green
		Stopped: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange
		Offline: lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}, // Red

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Danger:    lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	t.Header = lipgloss.NewStyle().Foreground(t.Subtext)
	t.Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border)
	t.PanelFocus = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary)
	t.Flash = lipgloss.NewStyle().Foreground(t.Running)
	t.FlashError = lipgloss.NewStyle().Foreground(t.Danger)
	t.HintKey = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	t.HintText = lipgloss.NewStyle().Foreground(t.Muted)

	badge := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	t.BadgeIdle = badge.Foreground(t.Idle)
	t.BadgeRunning = badge.Foreground(t.Running)
	t.BadgeStopped = badge.Foreground(t.Stopped)
	t.BadgeOffline = badge.Foreground(t.Offline)

	return t
}
