package standings

import "fmt"

// InvalidBreakCountError is returned when a requested break is not a positive
// multiple of four or is larger than the field.
type InvalidBreakCountError struct {
	BreakCount int
	Teams      int
}

func (e *InvalidBreakCountError) Error() string {
	if e.BreakCount > e.Teams {
		return fmt.Sprintf("invalid break size %d: only %d teams in standings", e.BreakCount, e.Teams)
	}
	return fmt.Sprintf("invalid break size %d: must be a positive multiple of 4", e.BreakCount)
}
