package sheets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrHeadersMissing means a destination sheet has no recognizable header row,
// so rows routed to it cannot be positioned.
var ErrHeadersMissing = errors.New("sheet header row not found")

// minHeaderHits is the lowest keyword count a row may have and still be
// accepted as the header row.
const minHeaderHits = 2

// sheetState tracks one initialized destination sheet: where its header sits,
// what each column means, and where the next product row goes.
type sheetState struct {
	headerRow int
	headers   []string // cleaned header cell text per column, 0-based
	defaults  []string // template's first data row, kept for unmapped columns
	nextRow   int
}

// Writer appends product rows to workbook sheets under their detected header
// rows. Each sheet is initialized at most once per generation run: existing
// data rows are cleared, then rows only ever append.
type Writer struct {
	file   *excelize.File
	sheets map[string]*sheetState
}

// NewWriter wraps an open workbook.
func NewWriter(f *excelize.File) *Writer {
	return &Writer{file: f, sheets: make(map[string]*sheetState)}
}

// Initialize locates the header row on the sheet using the expected keyword
// set, captures the template's default data row, and truncates everything
// below the header. Calling it again for the same sheet is a no-op.
func (w *Writer) Initialize(sheet string, expectedKeywords []string) error {
	if _, ok := w.sheets[sheet]; ok {
		return nil
	}
	headerRow, hits := bestHeaderRow(w.file, sheet, expectedKeywords)
	if hits < minHeaderHits {
		return fmt.Errorf("%w: sheet %q", ErrHeadersMissing, sheet)
	}

	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	st := &sheetState{headerRow: headerRow, nextRow: headerRow + 1}
	for _, cell := range rows[headerRow-1] {
		st.headers = append(st.headers, strings.ToLower(strings.TrimSpace(cell)))
	}
	if len(rows) > headerRow {
		st.defaults = append(st.defaults, rows[headerRow]...)
	}

	// drop the template's sample data rows, bottom-up
	for r := len(rows); r > headerRow; r-- {
		if err := w.file.RemoveRow(sheet, r); err != nil {
			return fmt.Errorf("clear sheet %q row %d: %w", sheet, r, err)
		}
	}
	w.sheets[sheet] = st
	return nil
}

// AppendRows writes rows after the last populated row. Each row maps field
// keys to values; a column receives the value of the longest key its header
// text contains ("оперативн" beats "памят" on an "Оперативная память"
// column), or the template's default for that column.
func (w *Writer) AppendRows(sheet string, rows []map[string]string) (int, error) {
	st, ok := w.sheets[sheet]
	if !ok {
		return 0, fmt.Errorf("sheet %q not initialized", sheet)
	}
	written := 0
	for _, row := range rows {
		values := make([]interface{}, len(st.headers))
		for col, header := range st.headers {
			val := defaultFor(st, col)
			bestLen := -1
			for key, v := range row {
				if header == "" || !strings.Contains(header, key) {
					continue
				}
				if len(key) > bestLen || (len(key) == bestLen && v < val) {
					val, bestLen = v, len(key)
				}
			}
			values[col] = val
		}
		cell, err := excelize.CoordinatesToCellName(1, st.nextRow)
		if err != nil {
			return written, err
		}
		if err := w.file.SetSheetRow(sheet, cell, &values); err != nil {
			return written, fmt.Errorf("write sheet %q row %d: %w", sheet, st.nextRow, err)
		}
		st.nextRow++
		written++
	}
	return written, nil
}

// RowCount reports how many product rows were appended to the sheet so far.
func (w *Writer) RowCount(sheet string) int {
	st, ok := w.sheets[sheet]
	if !ok {
		return 0
	}
	return st.nextRow - st.headerRow - 1
}

// Columns exposes the cleaned header cells of an initialized sheet.
func (w *Writer) Columns(sheet string) []string {
	st, ok := w.sheets[sheet]
	if !ok {
		return nil
	}
	return st.headers
}

func defaultFor(st *sheetState, col int) string {
	if col < len(st.defaults) {
		return st.defaults[col]
	}
	return ""
}

// bestHeaderRow scores the leading rows of a sheet by how many expected
// keywords their cells mention and returns the best 1-based row with its hit
// count. Grounded on the usual shape of marketplace templates: a banner or
// two, then a dense header row, then sample data.
func bestHeaderRow(f *excelize.File, sheet string, expectedKeywords []string) (int, int) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return 0, 0
	}
	defer rows.Close()

	bestRow, bestHits := 0, 0
	for r := 1; r <= headerScanDepth && rows.Next(); r++ {
		cells, err := rows.Columns()
		if err != nil {
			continue
		}
		hits := 0
		for _, kw := range expectedKeywords {
			for _, cell := range cells {
				if strings.Contains(strings.ToLower(cell), kw) {
					hits++
					break
				}
			}
		}
		if hits > bestHits {
			bestRow, bestHits = r, hits
		}
	}
	return bestRow, bestHits
}
