package models

import "time"

type Member struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

type Team struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	Institution  *string   `json:"institution,omitempty" db:"institution"`
	Members      [2]Member `json:"members" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
