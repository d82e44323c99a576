// =============================================================================
// t4bulk - Shared Types
// =============================================================================
//
// This package contains the spreadsheet types shared by the readers
// (xlsxparser, csvparser), the row validator, the element normalizer and the
// installer. Keeping them here avoids import cycles between those packages.
//
// =============================================================================

package types

// =============================================================================
// RESERVED COLUMNS
// =============================================================================

// Reserved column names. They identify the target of a row rather than an
// element of the content type, and are matched case-sensitively.
const (
	ColumnContentTypeID = "ContentTypeID"
	ColumnSectionID     = "Section ID"
	ColumnContentID     = "Content ID"
	ColumnPublishDate   = "Publish Date"
	ColumnExpiryDate    = "Expiry Date"
	ColumnReviewDate    = "Review Date"
)

// DefaultDataType is the declared type used when the type row has no entry
// for a column.
const DefaultDataType = "String"

// reserved is the lookup set behind IsReserved.
var reserved = map[string]struct{}{
	ColumnContentTypeID: {},
	ColumnSectionID:     {},
	ColumnContentID:     {},
	ColumnPublishDate:   {},
	ColumnExpiryDate:    {},
	ColumnReviewDate:    {},
}

// IsReserved reports whether a column carries row metadata instead of an
// element value.
func IsReserved(column string) bool {
	_, ok := reserved[column]
	return ok
}

// =============================================================================
// ROW TYPES
// =============================================================================

// Cell is a single spreadsheet value together with the type declared for its
// column in the first header row.
type Cell struct {
	// Value is the cell text as the spreadsheet library formatted it.
	// An empty string means the cell was blank or missing.
	Value string

	// DataType is the declared type from the header row (e.g. "Plain Text").
	DataType string
}

// IsEmpty reports whether the cell carries no value.
func (c Cell) IsEmpty() bool {
	return c.Value == ""
}

// Row is one data row of a sheet. Columns keeps the header order so that
// callers iterate deterministically; Cells is keyed by column name.
type Row struct {
	// Number is the 1-based spreadsheet row number, used in messages.
	Number int

	// Columns lists the column names in sheet order.
	Columns []string

	// Cells maps a column name to its cell.
	Cells map[string]Cell
}

// NewRow creates an empty row for the given spreadsheet row number.
func NewRow(number int) *Row {
	return &Row{
		Number: number,
		Cells:  make(map[string]Cell),
	}
}

// Set appends a column to the row, or replaces the cell if the column
// already exists.
func (r *Row) Set(column string, cell Cell) {
	if _, exists := r.Cells[column]; !exists {
		r.Columns = append(r.Columns, column)
	}
	r.Cells[column] = cell
}

// Value returns the raw value of a column, or "" if the column is absent.
func (r *Row) Value(column string) string {
	return r.Cells[column].Value
}

// Sheet is a parsed worksheet.
type Sheet struct {
	// Name is the worksheet name (or the file name for CSV input).
	Name string

	// Rows holds the data rows, header rows excluded.
	Rows []*Row
}
