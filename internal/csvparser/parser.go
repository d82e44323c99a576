// =============================================================================
// t4bulk - CSV Reader
// =============================================================================
//
// This module reads a CSV export laid out like one workbook sheet: declared
// types on line 1, column names on line 2, data from line 3. The result is a
// single sheet named after the file.
//
// FEATURES:
//   - Configurable delimiter (comma, pipe, tab, semicolon)
//   - Lazy quotes and ragged rows
//   - UTF-8 byte order mark removal (spreadsheet exports often carry one)
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cmsbulk/t4bulk/internal/types"
	"github.com/cmsbulk/t4bulk/internal/xlsxparser"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// IsCSV reports whether path should be read with this package.
func IsCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// SheetName returns the sheet name used for a CSV file.
func SheetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Parse reads a CSV file into a sheet.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - delimiter: The field separator (see configureReader).
//
// RETURNS:
//   - The parsed sheet.
//   - An error if the file cannot be read or has fewer than 3 rows.
func Parse(filePath, delimiter string) (*types.Sheet, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file, SheetName(filePath), delimiter)
}

// ParseReader reads CSV data from r into a sheet called name.
func ParseReader(r io.Reader, name, delimiter string) (*types.Sheet, error) {
	reader := bufio.NewReader(r)
	if head, err := reader.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = reader.Discard(len(utf8BOM))
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, delimiter)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return xlsxparser.SheetFromRows(name, allRows)
}

// configureReader configures the CSV reader for the given delimiter.
func configureReader(reader *csv.Reader, delimiter string) {
	switch delimiter {
	case "\\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(delimiter) > 0 {
			reader.Comma = rune(delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Allow a variable number of fields per row.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}

// Document is a CSV file opened as a one-sheet workbook.
type Document struct {
	path      string
	delimiter string
}

// Open returns a Document for path. The file is read when its sheet is
// requested.
func Open(path, delimiter string) *Document {
	return &Document{path: path, delimiter: delimiter}
}

// SheetNames returns the single sheet name of the document.
func (d *Document) SheetNames() []string {
	return []string{SheetName(d.path)}
}

// Sheet parses the file. name must be the document's sheet name or "".
func (d *Document) Sheet(name string) (*types.Sheet, error) {
	if name != "" && name != SheetName(d.path) {
		return nil, fmt.Errorf("%w: %q", xlsxparser.ErrSheetNotFound, name)
	}
	return Parse(d.path, d.delimiter)
}

// Close is a no-op; the file is closed after every read.
func (d *Document) Close() error {
	return nil
}
