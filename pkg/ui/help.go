package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# gmctl

Remote control for the Google Maps crawl worker.

## Keyword input

| Key | Action |
|-----|--------|
| enter | start (or resume) a crawl for the keyword |
| tab / esc | move focus to the log pane |

Starting with the same keyword resumes the previous run: collected
rows are kept and their links are sent back as a skip-list so the
worker does not revisit them. A new keyword starts fresh; the old
run's rows are archived locally first.

## Log pane

| Key | Action |
|-----|--------|
| j / k, ↓ / ↑ | scroll the log |
| i, / | focus the keyword input |
| s | stop the running crawl |
| e | export rows as CSV |
| x | export rows as XLSX |
| c | choose export columns |
| y | copy the newest row's link |
| p | toggle the live preview |
| r | reconnect to the worker |
| ? | toggle this help |
| q | quit |

Exports land in the configured export directory and honor the column
mask. Archived runs can be exported later with ` + "`gmctl --export-wizard`" + `.
`

// renderHelp renders the help overlay through glamour, falling back to
// the raw markdown if the renderer cannot be built.
func renderHelp(width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n")
}
