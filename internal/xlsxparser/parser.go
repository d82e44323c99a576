// =============================================================================
// t4bulk - Workbook Reader
// =============================================================================
//
// This module reads the import workbooks. Every sheet has the same layout:
//
//   | Row | Content                                             |
//   |-----|-----------------------------------------------------|
//   | 1   | Declared type per column ("Plain Text", "Date", ...) |
//   | 2   | Column names (reserved columns, then element names) |
//   | 3+  | One content item per row                            |
//
// Empty rows are skipped, columns without a name are ignored, a missing
// value reads as "" and a missing declared type as "String".
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cmsbulk/t4bulk/internal/types"
)

// headerRows is the number of header rows before the data.
const headerRows = 2

// AllSheets selects every sheet of the workbook.
const AllSheets = "all"

var (
	// ErrTooFewRows is returned for a sheet without at least one data row
	// below the two header rows.
	ErrTooFewRows = errors.New("sheet must have at least 3 rows (data types, keys, and data)")

	// ErrSheetNotFound is returned when a requested sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrNoSheets is returned for a workbook without sheets.
	ErrNoSheets = errors.New("workbook contains no sheets")
)

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook is an open spreadsheet file.
type Workbook struct {
	path string
	file *excelize.File
}

// Open opens the workbook at path. The caller must Close it.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if len(f.GetSheetList()) == 0 {
		f.Close()
		return nil, ErrNoSheets
	}
	return &Workbook{path: path, file: f}, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Path returns the file the workbook was opened from.
func (w *Workbook) Path() string {
	return w.path
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Sheet reads one sheet. An empty name reads the first sheet.
//
// PARAMETERS:
//   - name: The sheet name, case-sensitive.
//
// RETURNS:
//   - The parsed sheet.
//   - ErrSheetNotFound, ErrTooFewRows, or a read error.
func (w *Workbook) Sheet(name string) (*types.Sheet, error) {
	if name == "" {
		name = w.SheetNames()[0]
	}
	if !slices.Contains(w.SheetNames(), name) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}

	rows, err := w.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}

	return SheetFromRows(name, rows)
}

// =============================================================================
// SHEET SELECTION
// =============================================================================

// SelectSheets resolves the user's sheet choice against the available
// sheets: "" selects the first sheet, "all" selects every sheet, anything
// else must name an existing sheet.
func SelectSheets(available []string, choice string) ([]string, error) {
	if len(available) == 0 {
		return nil, ErrNoSheets
	}

	choice = strings.TrimSpace(choice)
	switch choice {
	case "":
		return available[:1], nil
	case AllSheets:
		return append([]string(nil), available...), nil
	}

	if !slices.Contains(available, choice) {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, choice, strings.Join(available, ", "))
	}
	return []string{choice}, nil
}

// =============================================================================
// ROW CONVERSION
// =============================================================================

// SheetFromRows converts a raw grid (as returned by a spreadsheet or CSV
// reader) into a Sheet. Row numbers in the result are 1-based grid rows.
func SheetFromRows(name string, grid [][]string) (*types.Sheet, error) {
	if len(grid) <= headerRows {
		return nil, fmt.Errorf("%q: %w", name, ErrTooFewRows)
	}

	dataTypes := grid[0]
	keys := grid[1]

	sheet := &types.Sheet{Name: name}
	for i := headerRows; i < len(grid); i++ {
		raw := grid[i]
		if isRowEmpty(raw) {
			continue
		}

		row := types.NewRow(i + 1)
		for col, key := range keys {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			row.Set(key, types.Cell{
				Value:    cellAt(raw, col),
				DataType: declaredType(dataTypes, col),
			})
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func cellAt(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

func declaredType(declared []string, col int) string {
	if t := strings.TrimSpace(cellAt(declared, col)); t != "" {
		return t
	}
	return types.DefaultDataType
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
