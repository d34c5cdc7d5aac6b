package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rachel1809/gmaps-scraper/pkg/model"
)

// columnsAction is the outcome of one key handled by the columns modal.
type columnsAction int

const (
	columnsNone columnsAction = iota
	columnsApply
	columnsCancel
)

// ColumnsModel is the modal for editing the export column mask. It
// operates on a copy; the mask only reaches the config when applied.
type ColumnsModel struct {
	theme   Theme
	columns []string
	enabled model.ColumnMask
	cursor  int
}

// NewColumnsModel builds the modal seeded from the current mask.
func NewColumnsModel(theme Theme, mask model.ColumnMask) ColumnsModel {
	return ColumnsModel{
		theme:   theme,
		columns: model.CanonicalColumns(),
		enabled: mask.Clone(),
	}
}

// Mask returns the edited mask.
func (m ColumnsModel) Mask() model.ColumnMask {
	return m.enabled
}

// Update handles one key press. Space toggles, enter applies, esc
// cancels.
func (m ColumnsModel) Update(msg tea.KeyMsg) (ColumnsModel, columnsAction) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.columns)-1 {
			m.cursor++
		}
	case " ", "x":
		col := m.columns[m.cursor]
		m.enabled[col] = !m.enabled.Enabled(col)
	case "a":
		for _, col := range m.columns {
			m.enabled[col] = true
		}
	case "enter":
		return m, columnsApply
	case "esc", "q":
		return m, columnsCancel
	}
	return m, columnsNone
}

// View renders the modal body.
func (m ColumnsModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.theme.Title.Render("Export Columns"))
	sb.WriteString("\n\n")

	for i, col := range m.columns {
		cursor := "  "
		if i == m.cursor {
			cursor = m.theme.HintKey.Render("> ")
		}
		check := "[ ]"
		if m.enabled.Enabled(col) {
			check = "[x]"
		}
		line := cursor + check + " " + strings.ToUpper(col)
		if i == m.cursor {
			line = m.theme.Base.Render(line)
		} else {
			line = m.theme.Header.Render(line)
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	sb.WriteString("\n")
	sb.WriteString(m.theme.HintText.Render("space toggle · a all · enter apply · esc cancel"))
	return m.theme.PanelFocus.Padding(1, 2).Render(sb.String())
}
