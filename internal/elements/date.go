// =============================================================================
// t4bulk - Date Encoder
// =============================================================================
//
// Converts date cells to millisecond epoch timestamps.
//
// ACCEPTED INPUT:
//   - Digit-only timestamps, scaled by 10 until they have 13 digits
//   - Calendar dates and date-times; zoneless values are read as UTC
//
// Unparseable values are passed through unchanged as a Fallback.
//
// =============================================================================

package elements

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

// timestampDigits is the length of a millisecond epoch timestamp.
const timestampDigits = 13

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Layouts commonly produced by spreadsheet date formats. They are tried
// after the formats cast understands.
var sheetDateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06",
	"1/2/06 15:04",
	"01-02-06",
	"1-2-06",
	"2-Jan-06",
	"January 2, 2006",
	"Jan 2, 2006",
}

// EncodeDate converts a cell value to a millisecond timestamp.
//
// Digit-only values are taken as timestamps and scaled by 10 until they
// have 13 digits. Other values are parsed as dates (UTC when no zone is
// given). A value that cannot be parsed is passed through as a Fallback.
func EncodeDate(raw string) Result {
	if digitsOnly.MatchString(raw) {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fallback(raw, fmt.Sprintf("timestamp %q out of range", raw))
		}
		return encoded(padTimestamp(n))
	}

	t, err := ParseDate(raw)
	if err != nil {
		return fallback(raw, fmt.Sprintf("invalid date format %q", raw))
	}
	return encoded(padTimestamp(t.UnixMilli()))
}

// ParseDate parses a date cell. It is shared with the reserved date columns.
func ParseDate(raw string) (time.Time, error) {
	if t, err := cast.StringToDate(raw); err == nil {
		return t, nil
	}
	for _, layout := range sheetDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q", raw)
}

// padTimestamp multiplies short positive timestamps by 10 until they have
// 13 digits. Zero and negative values are returned unchanged.
func padTimestamp(n int64) int64 {
	if n <= 0 {
		return n
	}
	for len(strconv.FormatInt(n, 10)) < timestampDigits {
		n *= 10
	}
	return n
}
