// =============================================================================
// t4bulk - Run Summaries
// =============================================================================
//
// Per-sheet and run-wide summaries, their console rendering and the
// conversion of failures into error log entries.
//
// =============================================================================

package installer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/cmsbulk/t4bulk/pkg/utils"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1)
)

// SheetSummary holds the outcomes of one sheet.
type SheetSummary struct {
	Sheet    string
	Success  int
	Errors   int
	Total    int
	Outcomes []Outcome
}

// SheetError is a sheet that could not be read.
type SheetError struct {
	Sheet string
	Err   error
}

// RunSummary holds the outcomes of a whole run.
type RunSummary struct {
	Started     time.Time
	Finished    time.Time
	Sheets      []SheetSummary
	SheetErrors []SheetError
	Success     int
	Errors      int
}

// Failures returns the failed outcomes of every sheet, in row order.
func (r *RunSummary) Failures() []Outcome {
	var out []Outcome
	for _, s := range r.Sheets {
		for _, o := range s.Outcomes {
			if !o.OK() {
				out = append(out, o)
			}
		}
	}
	return out
}

// ErrorLogEntries converts failures and unreadable sheets into error log
// entries for source (the input file name).
func (r *RunSummary) ErrorLogEntries(source string) []utils.ErrorLogEntry {
	var entries []utils.ErrorLogEntry
	for _, se := range r.SheetErrors {
		entries = append(entries, utils.ErrorLogEntry{
			Timestamp:    r.Finished,
			FileName:     source,
			SheetName:    se.Sheet,
			ErrorType:    "sheet",
			ErrorMessage: se.Err.Error(),
		})
	}
	for _, o := range r.Failures() {
		errType := "cms"
		if o.Field != "" {
			errType = "validation"
		}
		entries = append(entries, utils.ErrorLogEntry{
			Timestamp:    r.Finished,
			FileName:     source,
			SheetName:    o.Sheet,
			ErrorType:    errType,
			ErrorMessage: o.Message,
			RowNumber:    o.Row,
			FieldName:    o.Field,
			FieldValue:   o.Value,
		})
	}
	return entries
}

// Render formats a sheet summary for the console.
func (s SheetSummary) Render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Sheet %q Summary", s.Sheet)) + "\n")
	fmt.Fprintf(&b, "  Successful updates: %s\n", okStyle.Render(fmt.Sprint(s.Success)))
	fmt.Fprintf(&b, "  Failed updates:     %s\n", countStyle(s.Errors).Render(fmt.Sprint(s.Errors)))
	fmt.Fprintf(&b, "  Total processed:    %d", s.Total)
	return b.String()
}

// Render formats the run summary for the console.
func (r *RunSummary) Render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Final Summary") + "\n")
	fmt.Fprintf(&b, "  Total successful updates: %s\n", okStyle.Render(fmt.Sprint(r.Success)))
	fmt.Fprintf(&b, "  Total failed updates:     %s\n", countStyle(r.Errors).Render(fmt.Sprint(r.Errors)))
	fmt.Fprintf(&b, "  Total sheets processed:   %d\n", len(r.Sheets))
	if len(r.SheetErrors) > 0 {
		fmt.Fprintf(&b, "  Sheets skipped:           %s\n", failStyle.Render(fmt.Sprint(len(r.SheetErrors))))
	}
	fmt.Fprintf(&b, "  Duration:                 %s", r.Finished.Sub(r.Started).Round(time.Millisecond))
	return summaryStyle.Render(b.String())
}

func countStyle(errors int) lipgloss.Style {
	if errors > 0 {
		return failStyle
	}
	return okStyle
}
