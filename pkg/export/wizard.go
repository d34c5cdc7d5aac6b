// This file implements the interactive export wizard for the
// --export-wizard flag. It lets users pull an archived run out of the
// local archive and write it to CSV or XLSX without entering the TUI.
package export

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/Rachel1809/gmaps-scraper/pkg/archive"
	"github.com/Rachel1809/gmaps-scraper/pkg/model"
)

// Wizard walks the user through exporting an archived run.
type Wizard struct {
	store      *archive.Store
	serializer *Serializer
	exportDir  string

	runID   int64
	format  Format
	columns []string
}

// NewWizard creates an export wizard over the given archive store.
// Files are written to exportDir unless the user overrides it.
func NewWizard(store *archive.Store, exportDir string) *Wizard {
	return &Wizard{
		store:      store,
		serializer: New(),
		exportDir:  exportDir,
		format:     FormatCSV,
	}
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run executes the interactive wizard flow and returns the path of the
// written file.
func (w *Wizard) Run() (string, error) {
	runs, err := w.store.Runs()
	if err != nil {
		return "", fmt.Errorf("listing archived runs: %w", err)
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("the archive is empty; finish a crawl first")
	}

	if err := w.collectRun(runs); err != nil {
		return "", err
	}
	if err := w.collectFormat(); err != nil {
		return "", err
	}
	if err := w.collectColumns(); err != nil {
		return "", err
	}
	if err := w.collectDestination(); err != nil {
		return "", err
	}

	records, err := w.store.Records(w.runID)
	if err != nil {
		return "", fmt.Errorf("loading run %d: %w", w.runID, err)
	}

	mask := model.ColumnMask{}
	for _, col := range w.columns {
		mask[col] = true
	}

	path, err := w.serializer.WriteFile(w.exportDir, records, mask, w.format)
	if err != nil {
		return "", err
	}

	fmt.Printf("Exported %d rows to %s\n", len(records), path)
	return path, nil
}

func (w *Wizard) collectRun(runs []archive.Run) error {
	options := make([]huh.Option[int64], 0, len(runs))
	for _, run := range runs {
		label := fmt.Sprintf("%s — %d rows (%s)",
			run.Keyword, run.RowCount, run.ArchivedAt.Local().Format("2006-01-02 15:04"))
		options = append(options, huh.NewOption(label, run.ID))
	}

	form := newForm(
		huh.NewGroup(
			huh.NewSelect[int64]().
				Title("Which run do you want to export?").
				Options(options...).
				Value(&w.runID),
		),
	)
	return form.Run()
}

func (w *Wizard) collectFormat() error {
	form := newForm(
		huh.NewGroup(
			huh.NewSelect[Format]().
				Title("Export format").
				Options(
					huh.NewOption("CSV (plain text, opens anywhere)", FormatCSV),
					huh.NewOption("XLSX (Excel workbook)", FormatXLSX),
				).
				Value(&w.format),
		),
	)
	return form.Run()
}

func (w *Wizard) collectColumns() error {
	all := model.CanonicalColumns()
	w.columns = append([]string(nil), all...)

	options := make([]huh.Option[string], 0, len(all))
	for _, col := range all {
		options = append(options, huh.NewOption(col, col).Selected(true))
	}

	form := newForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Columns to include").
				Options(options...).
				Validate(func(selected []string) error {
					if len(selected) == 0 {
						return fmt.Errorf("select at least one column")
					}
					return nil
				}).
				Value(&w.columns),
		),
	)
	return form.Run()
}

func (w *Wizard) collectDestination() error {
	dir := w.exportDir
	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output directory").
				Value(&dir).
				Placeholder(w.exportDir),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if dir != "" {
		w.exportDir = dir
	}
	return nil
}

// DescribeRun formats a one-line summary used by --list-runs.
func DescribeRun(run archive.Run) string {
	return run.ArchivedAt.Local().Format("2006-01-02 15:04") +
		"  #" + strconv.FormatInt(run.ID, 10) +
		"  " + run.Keyword +
		"  (" + strconv.Itoa(run.RowCount) + " rows)"
}
