package models

import "time"

// TournamentStatus mirrors the status column of the tournaments table.
type TournamentStatus string

const (
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
)

type Tournament struct {
	ID           int              `json:"id" db:"id"`
	Name         string           `json:"name" db:"name"`
	Description  *string          `json:"description,omitempty" db:"description"`
	Location     *string          `json:"location,omitempty" db:"location"`
	StartDate    time.Time        `json:"start_date" db:"start_date"`
	EndDate      time.Time        `json:"end_date" db:"end_date"`
	NumRounds    int              `json:"num_rounds" db:"num_rounds"`
	BreakRounds  int              `json:"break_rounds" db:"break_rounds"`
	BreakSize    int              `json:"break_size" db:"break_size"`
	CurrentRound int              `json:"current_round" db:"current_round"`
	Status       TournamentStatus `json:"status" db:"status"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}

// RoundSummary describes one generated round of a tournament.
type RoundSummary struct {
	Round     int  `json:"round_number"`
	IsBreak   bool `json:"is_break"`
	Debates   int  `json:"debates"`
	Completed int  `json:"completed"`
}

// IsComplete reports whether every debate of the round is scored.
func (r RoundSummary) IsComplete() bool {
	return r.Debates > 0 && r.Debates == r.Completed
}
