package models

import "time"

// AdjudicatorLevel is the judge's experience grade.
type AdjudicatorLevel string

const (
	LevelNovice      AdjudicatorLevel = "novice"
	LevelExperienced AdjudicatorLevel = "experienced"
	LevelExpert      AdjudicatorLevel = "expert"
)

// Weight orders levels for allocation: expert 3, experienced 2, novice 1.
func (l AdjudicatorLevel) Weight() int {
	switch l {
	case LevelExpert:
		return 3
	case LevelExperienced:
		return 2
	case LevelNovice:
		return 1
	}
	return 0
}

type Adjudicator struct {
	ID           int              `json:"id" db:"id"`
	TournamentID int              `json:"tournament_id" db:"tournament_id"`
	Name         string           `json:"name" db:"name"`
	Email        *string          `json:"email,omitempty" db:"email"`
	Institution  *string          `json:"institution,omitempty" db:"institution"`
	Level        AdjudicatorLevel `json:"level" db:"level"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`
}

// JudgedTeam records that an adjudicator sat on a panel in front of a team.
type JudgedTeam struct {
	AdjudicatorID int `json:"adjudicator_id"`
	Round         int `json:"round_number"`
	TeamID        int `json:"team_id"`
}

// Allocation is the panel of one debate.
type Allocation struct {
	DebateID     int            `json:"debate_id"`
	Adjudicators []*Adjudicator `json:"adjudicators"`
}
