package scoring

import "fmt"

// InvalidRankError is returned for a rank outside 1..4.
type InvalidRankError struct {
	Rank int
}

func (e *InvalidRankError) Error() string {
	return fmt.Sprintf("invalid rank %d: must be between 1 and 4", e.Rank)
}

// DuplicateRankError is returned when two teams of one debate share a rank.
type DuplicateRankError struct {
	Rank int
}

func (e *DuplicateRankError) Error() string {
	return fmt.Sprintf("rank %d is assigned to more than one team", e.Rank)
}

// IncompleteResultSetError is returned when a debate has some but not all of
// its four slots scored.
type IncompleteResultSetError struct {
	DebateID int
	Scored   int
}

func (e *IncompleteResultSetError) Error() string {
	if e.DebateID != 0 {
		return fmt.Sprintf("debate %d has %d of 4 results: a debate must be scored in full", e.DebateID, e.Scored)
	}
	return fmt.Sprintf("got %d of 4 results: a debate must be scored in full", e.Scored)
}
