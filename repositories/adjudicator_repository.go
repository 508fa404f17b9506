package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/bp-tabulator/models"
	"github.com/lib/pq"
)

var (
	ErrAdjudicatorNotFound          = errors.New("adjudicator not found")
	ErrAdjudicatorNameConflict      = errors.New("adjudicator name already registered in this tournament")
	ErrAdjudicatorTournamentInvalid = errors.New("adjudicator tournament reference is invalid")
)

type AdjudicatorRepository interface {
	Create(ctx context.Context, adjudicator *models.Adjudicator) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Adjudicator, error)
	// ListJudgedTeams returns every team seen by every adjudicator in rounds
	// before the given one.
	ListJudgedTeams(ctx context.Context, tournamentID int, beforeRound int) ([]models.JudgedTeam, error)
	// ListAllocations returns the stored panels of a round keyed by debate id.
	ListAllocations(ctx context.Context, tournamentID int, round int) (map[int][]*models.Adjudicator, error)
	// ReplaceAllocations drops the panels of the given debates and stores the new ones.
	ReplaceAllocations(ctx context.Context, exec SQLExecutor, debateIDs []int, allocations []models.Allocation) error
}

type postgresAdjudicatorRepository struct {
	db *sql.DB
}

func NewPostgresAdjudicatorRepository(db *sql.DB) AdjudicatorRepository {
	return &postgresAdjudicatorRepository{db: db}
}

const adjudicatorColumns = `a.id, a.tournament_id, a.name, a.email, a.institution, a.level, a.created_at`

func (r *postgresAdjudicatorRepository) Create(ctx context.Context, a *models.Adjudicator) error {
	query := `
		INSERT INTO adjudicators (tournament_id, name, email, institution, level)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, a.TournamentID, a.Name, a.Email, a.Institution, a.Level).
		Scan(&a.ID, &a.CreatedAt)
	return r.handleAdjudicatorError(err)
}

func scanAdjudicator(rowScanner interface{ Scan(...interface{}) error }, extra ...interface{}) (*models.Adjudicator, error) {
	var a models.Adjudicator
	dest := append(extra, &a.ID, &a.TournamentID, &a.Name, &a.Email, &a.Institution, &a.Level, &a.CreatedAt)
	if err := rowScanner.Scan(dest...); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *postgresAdjudicatorRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Adjudicator, error) {
	query := `SELECT ` + adjudicatorColumns + ` FROM adjudicators a WHERE a.tournament_id = $1 ORDER BY a.id ASC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	adjudicators := make([]*models.Adjudicator, 0)
	for rows.Next() {
		a, scanErr := scanAdjudicator(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		adjudicators = append(adjudicators, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return adjudicators, nil
}

func (r *postgresAdjudicatorRepository) ListJudgedTeams(ctx context.Context, tournamentID int, beforeRound int) ([]models.JudgedTeam, error) {
	query := `
		SELECT da.adjudicator_id, d.round_number, s.team_id
		FROM debate_adjudicators da
		JOIN debates d ON d.id = da.debate_id
		JOIN debate_slots s ON s.debate_id = da.debate_id
		WHERE d.tournament_id = $1 AND d.round_number < $2
		ORDER BY d.round_number ASC, da.adjudicator_id ASC, s.team_id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, beforeRound)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	judged := make([]models.JudgedTeam, 0)
	for rows.Next() {
		var j models.JudgedTeam
		if err := rows.Scan(&j.AdjudicatorID, &j.Round, &j.TeamID); err != nil {
			return nil, err
		}
		judged = append(judged, j)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return judged, nil
}

func (r *postgresAdjudicatorRepository) ListAllocations(ctx context.Context, tournamentID int, round int) (map[int][]*models.Adjudicator, error) {
	query := `
		SELECT da.debate_id, ` + adjudicatorColumns + `
		FROM debate_adjudicators da
		JOIN debates d ON d.id = da.debate_id
		JOIN adjudicators a ON a.id = da.adjudicator_id
		WHERE d.tournament_id = $1 AND d.round_number = $2
		ORDER BY da.debate_id ASC, da.position ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, round)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	panels := make(map[int][]*models.Adjudicator)
	for rows.Next() {
		var debateID int
		a, scanErr := scanAdjudicator(rows, &debateID)
		if scanErr != nil {
			return nil, scanErr
		}
		panels[debateID] = append(panels[debateID], a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return panels, nil
}

func (r *postgresAdjudicatorRepository) ReplaceAllocations(ctx context.Context, exec SQLExecutor, debateIDs []int, allocations []models.Allocation) error {
	executor := executorOr(exec, r.db)

	ids := make([]int64, len(debateIDs))
	for i, id := range debateIDs {
		ids[i] = int64(id)
	}
	if _, err := executor.ExecContext(ctx, `DELETE FROM debate_adjudicators WHERE debate_id = ANY($1)`, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to clear panels: %w", err)
	}

	query := `INSERT INTO debate_adjudicators (debate_id, adjudicator_id, position) VALUES ($1, $2, $3)`
	for _, alloc := range allocations {
		for pos, a := range alloc.Adjudicators {
			if _, err := executor.ExecContext(ctx, query, alloc.DebateID, a.ID, pos+1); err != nil {
				return fmt.Errorf("failed to place adjudicator %d in debate %d: %w", a.ID, alloc.DebateID, r.handleAdjudicatorError(err))
			}
		}
	}
	return nil
}

func (r *postgresAdjudicatorRepository) handleAdjudicatorError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return ErrAdjudicatorNameConflict
		case "23503": // foreign_key_violation
			if pqErr.Constraint == "debate_adjudicators_adjudicator_id_fkey" {
				return ErrAdjudicatorNotFound
			}
			return ErrAdjudicatorTournamentInvalid
		}
	}
	return err
}
