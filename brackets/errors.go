package brackets

import (
	"errors"
	"fmt"
)

var ErrInvalidRound = errors.New("round number must be at least 1")

// InsufficientTeamsError is returned when fewer than four teams are eligible
// for a round.
type InsufficientTeamsError struct {
	Available int
}

func (e *InsufficientTeamsError) Error() string {
	return fmt.Sprintf("not enough teams to pair a round (found %d, min %d required)", e.Available, TeamsPerDebate)
}
