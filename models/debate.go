package models

import "time"

// SlotResult is the scored outcome of one team in one debate.
type SlotResult struct {
	Rank          int     `json:"rank"`
	Member1Points float64 `json:"member_1_points"`
	Member2Points float64 `json:"member_2_points"`
	ScaledPoints  float64 `json:"scaled_points"`
	TeamPoints    int     `json:"team_points"`
}

// RawPoints is the team's combined speaker score for the debate.
func (r SlotResult) RawPoints() float64 {
	return r.Member1Points + r.Member2Points
}

type DebateSlot struct {
	TeamID int         `json:"team_id" db:"team_id"`
	Role   Role        `json:"role" db:"role"`
	Result *SlotResult `json:"result,omitempty" db:"-"`

	Team *Team `json:"team,omitempty" db:"-"`
}

// Debate is one room of four teams. Slots are kept in role order OG, OO, CG, CO.
type Debate struct {
	ID           int           `json:"id" db:"id"`
	TournamentID int           `json:"tournament_id" db:"tournament_id"`
	Round        int           `json:"round_number" db:"round_number"`
	IsBreak      bool          `json:"is_break" db:"is_break"`
	Slots        [4]DebateSlot `json:"slots" db:"-"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}

// Scored reports how many of the slots carry a result.
func (d *Debate) Scored() int {
	n := 0
	for _, s := range d.Slots {
		if s.Result != nil {
			n++
		}
	}
	return n
}

// Result is a flattened slot result tagged with its team and debate.
type Result struct {
	DebateID int  `json:"debate_id"`
	TeamID   int  `json:"team_id"`
	Role     Role `json:"role"`
	SlotResult
}

// ResultsFromDebates flattens the scored slots of the given debates.
func ResultsFromDebates(debates []*Debate) []Result {
	results := make([]Result, 0, len(debates)*4)
	for _, d := range debates {
		if d == nil {
			continue
		}
		for _, s := range d.Slots {
			if s.Result == nil {
				continue
			}
			results = append(results, Result{
				DebateID:   d.ID,
				TeamID:     s.TeamID,
				Role:       s.Role,
				SlotResult: *s.Result,
			})
		}
	}
	return results
}
