// =============================================================================
// t4bulk - Encoder Results
// =============================================================================
//
// Every encoder returns a Result instead of failing: Encoded, Fallback (a
// substitute value was used) or Skipped (the column is dropped).
//
// =============================================================================

package elements

import "errors"

// ErrNoListMatch is returned when none of the selected values exist in the
// element's list.
var ErrNoListMatch = errors.New("no list value matched")

// Outcome says what an encoder did with a value.
type Outcome int

const (
	// Encoded means Value is the wire value.
	Encoded Outcome = iota
	// Fallback means Value is a substitute (raw string or placeholder) and
	// Note explains why.
	Fallback
	// Skipped means the column must be left out of the element map.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Encoded:
		return "encoded"
	case Fallback:
		return "fallback"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result is the value produced by an encoder together with any warnings.
type Result struct {
	Value   any
	Outcome Outcome
	// Note is set for Fallback and Skipped results.
	Note string
	// Warnings are non-fatal problems found while encoding, such as list
	// values that were dropped.
	Warnings []string
}

func encoded(v any) Result {
	return Result{Value: v, Outcome: Encoded}
}

func fallback(v any, note string) Result {
	return Result{Value: v, Outcome: Fallback, Note: note}
}

func skipped(note string) Result {
	return Result{Outcome: Skipped, Note: note}
}
