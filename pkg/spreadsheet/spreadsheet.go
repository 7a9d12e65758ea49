// Package spreadsheet reads and writes simple header-plus-rows xlsx
// workbooks.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmpty is returned when a workbook has no sheet or no rows
var ErrEmpty = errors.New("spreadsheet is empty")

// Table is the first sheet of a workbook keyed by its header row
type Table struct {
	columns map[string]int
	Rows    []Row
}

// Row is one data row. Line is the 1-based row number in the sheet.
type Row struct {
	Line  int
	cells []string
	table *Table
}

// ReadTable reads the first sheet of an xlsx stream. The first row is the
// header; header names are matched case-insensitively with spaces and
// dashes treated as underscores. Blank rows are skipped.
func ReadTable(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmpty
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	t := &Table{columns: make(map[string]int, len(rows[0]))}
	for i, name := range rows[0] {
		if key := normalize(name); key != "" {
			t.columns[key] = i
		}
	}

	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		t.Rows = append(t.Rows, Row{Line: i + 2, cells: cells, table: t})
	}
	return t, nil
}

// Has reports whether the header row names column
func (t *Table) Has(column string) bool {
	_, ok := t.columns[normalize(column)]
	return ok
}

// Get returns the trimmed cell under column, or "" when absent
func (r Row) Get(column string) string {
	i, ok := r.table.columns[normalize(column)]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Workbook accumulates sheets for export
type Workbook struct {
	f      *excelize.File
	sheets int
}

// NewWorkbook creates an empty workbook
func NewWorkbook() *Workbook {
	return &Workbook{f: excelize.NewFile()}
}

// AddSheet appends a sheet with a bold header row followed by rows
func (w *Workbook) AddSheet(name string, header []string, rows [][]interface{}) error {
	if w.sheets == 0 {
		if err := w.f.SetSheetName(w.f.GetSheetName(0), name); err != nil {
			return err
		}
	} else if _, err := w.f.NewSheet(name); err != nil {
		return err
	}
	w.sheets++

	bold, err := w.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := w.f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return err
	}
	if len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := w.f.SetCellStyle(name, "A1", last, bold); err != nil {
			return err
		}
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := row
		if err := w.f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// WriteTo writes the workbook in xlsx format
func (w *Workbook) WriteTo(out io.Writer) (int64, error) {
	return w.f.WriteTo(out)
}

// Close releases the workbook
func (w *Workbook) Close() error {
	return w.f.Close()
}
