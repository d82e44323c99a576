// =============================================================================
// t4bulk - Row Outcomes
// =============================================================================
//
// The per-row Outcome and the concurrent-safe Counters that tally them.
//
// =============================================================================

package installer

import (
	"sync/atomic"

	"github.com/cmsbulk/t4bulk/internal/elements"
)

// Status is the classification of one row.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Action is what was done to the content item of a row.
type Action string

const (
	ActionNone    Action = ""
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// Outcome is the result of processing one row. Every input row gets
// exactly one.
type Outcome struct {
	Sheet  string
	Row    int
	Status Status
	Action Action

	// ContentID is the id of the created or updated item on success.
	ContentID int

	// Approved is set when a draft created by this row was approved.
	Approved bool

	// Field names the reserved column that made the row invalid, if any.
	Field string

	// Value is the offending cell value when Field is set.
	Value string

	// Message describes the failure, empty on success.
	Message string

	// Issues are column-level problems; they do not fail the row.
	Issues []elements.Issue
}

// OK reports whether the row succeeded.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

// Counters tallies outcomes. It is safe for concurrent use.
type Counters struct {
	success atomic.Int64
	errors  atomic.Int64
}

// Record counts o.
func (c *Counters) Record(o Outcome) {
	if o.OK() {
		c.success.Add(1)
	} else {
		c.errors.Add(1)
	}
}

// Success returns the number of successful rows.
func (c *Counters) Success() int {
	return int(c.success.Load())
}

// Errors returns the number of failed rows.
func (c *Counters) Errors() int {
	return int(c.errors.Load())
}

// Total returns the number of rows counted.
func (c *Counters) Total() int {
	return c.Success() + c.Errors()
}
