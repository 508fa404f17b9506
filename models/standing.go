package models

// Standing is a derived ranking row for one team. It is recomputed from
// results every time and never stored as a source of truth.
type Standing struct {
	TeamID           int      `json:"team_id"`
	TeamName         string   `json:"team_name"`
	Position         int      `json:"position"`
	TeamPoints       int      `json:"team_points"`
	SpeakerPoints    float64  `json:"speaker_points"`
	FirstPlaces      int      `json:"first_places"`
	SecondPlaces     int      `json:"second_places"`
	DebatesCompleted int      `json:"debates_completed"`
	AverageRank      *float64 `json:"average_rank"` // nil until the team has a completed debate
}

// TeamRoleBalance pairs a team with its bench history.
type TeamRoleBalance struct {
	TeamID   int        `json:"team_id"`
	TeamName string     `json:"team_name"`
	Counts   RoleCounts `json:"counts"`
}
