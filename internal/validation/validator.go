// =============================================================================
// t4bulk - Row Validation
// =============================================================================
//
// This module checks the reserved columns of a row before anything is sent
// to the CMS. It decides which content item a row targets:
//   - ContentTypeID and Section ID must be positive integers
//   - Content ID is optional; empty or 0 means "create new content"
//   - Publish/Expiry/Review Date must be parseable dates when present
//
// A row with any error-severity problem is skipped and counted as failed.
//
// It also checks element values against the content type's maximum sizes.
// Those problems are warnings only; the CMS decides what to do with them.
//
// =============================================================================

package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cmsbulk/t4bulk/internal/elements"
	"github.com/cmsbulk/t4bulk/internal/t4"
	"github.com/cmsbulk/t4bulk/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rules reported in ValidationError.Rule.
const (
	RuleRequired  = "required"
	RuleInteger   = "integer"
	RuleDate      = "date"
	RuleMaxLength = "max_length"
)

// isoMillis is the layout used for reserved dates sent to the CMS.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation problem.
type ValidationError struct {
	// Severity indicates the severity of the error.
	// "error" = the row is skipped
	// "warning" = the row is still processed
	Severity string

	// Field is the column that failed validation.
	Field string

	// Value is the actual value that failed validation.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string

	// RowNumber is the spreadsheet row number.
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Row %d, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.RowNumber,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Target is what a valid row points at.
type Target struct {
	ContentTypeID int
	SectionID     int
	// ContentID is 0 when the row creates new content.
	ContentID int

	// Reserved dates as ISO-8601 strings, empty when not given.
	PublishDate string
	ExpiryDate  string
	ReviewDate  string
}

// IsCreate reports whether the row creates new content.
func (t *Target) IsCreate() bool {
	return t.ContentID == 0
}

// ValidationResult contains the results of validating one row.
type ValidationResult struct {
	// IsValid is true if there are no error-severity problems.
	IsValid bool

	// Target is filled in as far as the reserved columns could be read.
	Target Target

	// Errors contains all problems, warnings included.
	Errors []*ValidationError

	ErrorCount   int
	WarningCount int
}

// FirstError returns the first error-severity problem, or nil.
func (r *ValidationResult) FirstError() *ValidationError {
	for _, e := range r.Errors {
		if e.Severity == SeverityError {
			return e
		}
	}
	return nil
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
	} else {
		r.WarningCount++
	}
}

// =============================================================================
// MAIN VALIDATION FUNCTIONS
// =============================================================================

// ValidateRow reads the reserved columns of row.
//
// PARAMETERS:
//   - row: The spreadsheet row.
//
// RETURNS:
//   - A ValidationResult whose Target is usable when IsValid is true.
func ValidateRow(row *types.Row) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	if id, err := requiredID(row, types.ColumnContentTypeID, "Invalid Content Type ID"); err != nil {
		result.add(err)
	} else {
		result.Target.ContentTypeID = id
	}

	if id, err := requiredID(row, types.ColumnSectionID, "Invalid Section ID"); err != nil {
		result.add(err)
	} else {
		result.Target.SectionID = id
	}

	if raw := strings.TrimSpace(row.Value(types.ColumnContentID)); raw != "" {
		id, ok := parseInteger(raw)
		if !ok {
			result.add(&ValidationError{
				Severity:  SeverityError,
				Field:     types.ColumnContentID,
				Value:     raw,
				Rule:      RuleInteger,
				Message:   "Invalid Content ID",
				RowNumber: row.Number,
			})
		} else {
			result.Target.ContentID = id
		}
	}

	dates := []struct {
		column string
		dest   *string
	}{
		{types.ColumnPublishDate, &result.Target.PublishDate},
		{types.ColumnExpiryDate, &result.Target.ExpiryDate},
		{types.ColumnReviewDate, &result.Target.ReviewDate},
	}
	for _, d := range dates {
		raw := strings.TrimSpace(row.Value(d.column))
		if raw == "" {
			continue
		}
		iso, err := isoDate(raw)
		if err != nil {
			result.add(&ValidationError{
				Severity:  SeverityError,
				Field:     d.column,
				Value:     raw,
				Rule:      RuleDate,
				Message:   fmt.Sprintf("Invalid %s", d.column),
				RowNumber: row.Number,
			})
			continue
		}
		*d.dest = iso
	}

	return result
}

// CheckLengths warns about element values longer than the element allows.
func CheckLengths(row *types.Row, ct *t4.ContentType) []*ValidationError {
	var problems []*ValidationError

	for _, column := range row.Columns {
		if types.IsReserved(column) {
			continue
		}
		el := ct.Element(column)
		if el == nil || el.MaxSize <= 0 {
			continue
		}
		// Only free-text values are stored as typed.
		if elements.Kind(el.Type).Class() != elements.ClassText {
			continue
		}

		value := row.Value(column)
		if n := utf8.RuneCountInString(value); n > el.MaxSize {
			problems = append(problems, &ValidationError{
				Severity:  SeverityWarning,
				Field:     column,
				Value:     truncate(value, 40),
				Rule:      RuleMaxLength,
				Message:   fmt.Sprintf("Value has %d characters, element allows %d", n, el.MaxSize),
				RowNumber: row.Number,
			})
		}
	}

	return problems
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func requiredID(row *types.Row, column, message string) (int, *ValidationError) {
	raw := strings.TrimSpace(row.Value(column))
	id, ok := parseInteger(raw)
	if raw == "" || !ok || id <= 0 {
		rule := RuleInteger
		if raw == "" {
			rule = RuleRequired
		}
		return 0, &ValidationError{
			Severity:  SeverityError,
			Field:     column,
			Value:     raw,
			Rule:      rule,
			Message:   message,
			RowNumber: row.Number,
		}
	}
	return id, nil
}

// parseInteger accepts integers and integral floats such as "12.0", which
// spreadsheets produce for numeric cells.
func parseInteger(raw string) (int, bool) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// isoDate converts a date cell to an ISO-8601 UTC string with milliseconds.
// Digit-only values are read as millisecond timestamps.
func isoDate(raw string) (string, error) {
	var t time.Time
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t = time.UnixMilli(ms)
	} else {
		parsed, err := elements.ParseDate(raw)
		if err != nil {
			return "", err
		}
		t = parsed
	}
	return t.UTC().Format(isoMillis), nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
