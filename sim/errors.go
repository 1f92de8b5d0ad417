package sim

import (
	"errors"
	"fmt"
)

// ErrSlotOccupied is returned by ScheduleGrid.Place when the target cell
// already holds a booking. The resolver uses it to fall through to the
// patient's next preference; it must never escape a resolver pass.
var ErrSlotOccupied = errors.New("slot occupied")

// ErrEmptyDistribution is returned when a sample is requested from a
// distribution with no observed keys. Callers must supply a fallback
// (the arrival process falls back to uniform sampling over the window).
var ErrEmptyDistribution = errors.New("empty distribution")

// DataParseError marks a single malformed historical record. Estimation
// skips the record and continues; it is never fatal to a whole pass.
type DataParseError struct {
	Field string
	Value string
	Err   error
}

func (e *DataParseError) Error() string {
	return fmt.Sprintf("bad historical record: field %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *DataParseError) Unwrap() error {
	return e.Err
}

// invariant panics with an InvariantViolation-style message when cond is
// false. Used for lifecycle bookkeeping contracts (e.g. an active booking
// falling outside the day window): such a state is a bug, not a data
// problem, and must abort the run.
func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic("invariant violation: " + fmt.Sprintf(format, args...))
	}
}
