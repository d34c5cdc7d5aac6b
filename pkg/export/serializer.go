// Package export projects the accumulated dataset through the export
// column mask and serializes it to downloadable CSV or XLSX bytes.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Rachel1809/gmaps-scraper/pkg/model"
)

// Format selects the serialization target.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the single worksheet written to spreadsheet exports.
const SheetName = "Data"

// sheetColWidth is the uniform column width hint for spreadsheet output.
const sheetColWidth = 30.0

var (
	// ErrEmptyDataset means there is nothing to export. Surfaced as a
	// user-visible warning; no file is produced.
	ErrEmptyDataset = errors.New("no records to export")

	// ErrSpreadsheetUnavailable means the serializer was built without a
	// spreadsheet engine. Retryable once an engine is wired; never a
	// crash.
	ErrSpreadsheetUnavailable = errors.New("spreadsheet engine not available")

	// ErrNoColumns means the column mask disables every column.
	ErrNoColumns = errors.New("column mask disables all columns")

	// ErrUnknownFormat rejects formats other than csv and xlsx.
	ErrUnknownFormat = errors.New("unknown export format")
)

// SpreadsheetEngine turns a projected table into spreadsheet bytes.
// Kept as an interface so the availability failure mode stays testable
// and the excelize dependency stays out of the projection logic.
type SpreadsheetEngine interface {
	Write(headers []string, rows [][]string) ([]byte, error)
}

// Serializer owns the projection and serialization of record sets. It
// only ever reads a consistent snapshot at invocation time and performs
// no concurrent mutation.
type Serializer struct {
	sheets SpreadsheetEngine
	now    func() time.Time
}

// New returns a Serializer with the excelize engine wired in.
func New() *Serializer {
	return &Serializer{sheets: excelizeEngine{}, now: time.Now}
}

// NewWithEngine returns a Serializer using the given spreadsheet engine.
// A nil engine makes every xlsx export fail with
// ErrSpreadsheetUnavailable.
func NewWithEngine(engine SpreadsheetEngine) *Serializer {
	return &Serializer{sheets: engine, now: time.Now}
}

// Filename returns the timestamped output name for a format:
// gmaps_export_<ISO-8601 with colons and periods replaced by hyphens,
// whole-second precision>.<ext>.
func (s *Serializer) Filename(format Format) string {
	ts := s.now().UTC().Format("2006-01-02T15:04:05")
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)
	return fmt.Sprintf("gmaps_export_%s.%s", ts, format)
}

// Serialize projects records through the mask and renders them in the
// requested format. Returns the suggested file name and the bytes.
func (s *Serializer) Serialize(records []model.Record, mask model.ColumnMask, format Format) (string, []byte, error) {
	if len(records) == 0 {
		return "", nil, ErrEmptyDataset
	}

	headers, rows, err := project(records, mask)
	if err != nil {
		return "", nil, err
	}

	var data []byte
	switch format {
	case FormatCSV:
		data, err = writeCSV(headers, rows)
	case FormatXLSX:
		if s.sheets == nil {
			return "", nil, ErrSpreadsheetUnavailable
		}
		data, err = s.sheets.Write(headers, rows)
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return "", nil, err
	}

	return s.Filename(format), data, nil
}

// WriteFile serializes and writes the output into dir, creating it if
// needed. Returns the full path of the written file.
func (s *Serializer) WriteFile(dir string, records []model.Record, mask model.ColumnMask, format Format) (string, error) {
	name, data, err := s.Serialize(records, mask, format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// project applies the column mask in canonical order and upper-cases the
// header labels.
func project(records []model.Record, mask model.ColumnMask) ([]string, [][]string, error) {
	columns := mask.EnabledColumns()
	if len(columns) == 0 {
		return nil, nil, ErrNoColumns
	}

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = strings.ToUpper(c)
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(columns))
		for j, c := range columns {
			row[j] = rec.Field(c)
		}
		rows[i] = row
	}
	return headers, rows, nil
}

// writeCSV renders header plus rows with standard RFC 4180 escaping
// (embedded quotes doubled, fields quoted as required).
func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// excelizeEngine is the default SpreadsheetEngine.
type excelizeEngine struct{}

func (excelizeEngine) Write(headers []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), SheetName)

	if err := writeSheetRow(f, 1, headers); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := writeSheetRow(f, i+2, row); err != nil {
			return nil, err
		}
	}

	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "A", last, sheetColWidth); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheetRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(SheetName, cell, &cells)
}
