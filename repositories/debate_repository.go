package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/bp-tabulator/models"
	"github.com/lib/pq"
)

var (
	ErrDebateNotFound          = errors.New("debate not found")
	ErrDebateTournamentInvalid = errors.New("debate tournament conflict or invalid")
	ErrDebateTeamInvalid       = errors.New("debate team conflict or invalid")
	ErrDebateSlotNotFound      = errors.New("team is not seated in this debate")
)

type DebateRepository interface {
	Create(ctx context.Context, exec SQLExecutor, debate *models.Debate) error
	GetByID(ctx context.Context, id int) (*models.Debate, error)
	ListByTournament(ctx context.Context, tournamentID int, round *int) ([]*models.Debate, error)
	// SaveResults overwrites the result of every slot of the debate.
	SaveResults(ctx context.Context, exec SQLExecutor, debateID int, results map[int]models.SlotResult) error
	// ListResultsByTournament returns scored slots. With prelimOnly set, break rounds are skipped.
	ListResultsByTournament(ctx context.Context, tournamentID int, prelimOnly bool) ([]models.Result, error)
	RoundExists(ctx context.Context, tournamentID int, round int) (bool, error)
	ListRounds(ctx context.Context, tournamentID int) ([]models.RoundSummary, error)
}

type postgresDebateRepository struct {
	db *sql.DB
}

func NewPostgresDebateRepository(db *sql.DB) DebateRepository {
	return &postgresDebateRepository{db: db}
}

func (r *postgresDebateRepository) Create(ctx context.Context, exec SQLExecutor, debate *models.Debate) error {
	executor := executorOr(exec, r.db)
	query := `
		INSERT INTO debates (tournament_id, round_number, is_break)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, debate.TournamentID, debate.Round, debate.IsBreak).
		Scan(&debate.ID, &debate.CreatedAt)
	if err != nil {
		return r.handleDebateError(err)
	}

	slotQuery := `INSERT INTO debate_slots (debate_id, team_id, role) VALUES ($1, $2, $3)`
	for _, slot := range debate.Slots {
		if _, err = executor.ExecContext(ctx, slotQuery, debate.ID, slot.TeamID, slot.Role); err != nil {
			return fmt.Errorf("failed to seat team %d as %s in debate %d: %w", slot.TeamID, slot.Role, debate.ID, r.handleDebateError(err))
		}
	}
	return nil
}

func (r *postgresDebateRepository) GetByID(ctx context.Context, id int) (*models.Debate, error) {
	query := `SELECT id, tournament_id, round_number, is_break, created_at FROM debates WHERE id = $1`
	d := &models.Debate{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.TournamentID, &d.Round, &d.IsBreak, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDebateNotFound
		}
		return nil, err
	}

	if err := r.loadSlots(ctx, map[int]*models.Debate{d.ID: d}); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *postgresDebateRepository) ListByTournament(ctx context.Context, tournamentID int, roundFilter *int) ([]*models.Debate, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, tournament_id, round_number, is_break, created_at
		FROM debates
		WHERE tournament_id = $1`)
	args := []interface{}{tournamentID}
	if roundFilter != nil {
		queryBuilder.WriteString(" AND round_number = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *roundFilter)
	}
	queryBuilder.WriteString(" ORDER BY round_number ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	debates := make([]*models.Debate, 0)
	byID := make(map[int]*models.Debate)
	for rows.Next() {
		d := &models.Debate{}
		if scanErr := rows.Scan(&d.ID, &d.TournamentID, &d.Round, &d.IsBreak, &d.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		debates = append(debates, d)
		byID[d.ID] = d
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(debates) == 0 {
		return debates, nil
	}

	if err := r.loadSlots(ctx, byID); err != nil {
		return nil, err
	}
	return debates, nil
}

func (r *postgresDebateRepository) loadSlots(ctx context.Context, byID map[int]*models.Debate) error {
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, int64(id))
	}

	query := `
		SELECT debate_id, team_id, role, rank, member1_points, member2_points, scaled_points, team_points
		FROM debate_slots
		WHERE debate_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			debateID, teamID int
			role             string
			rank, teamPoints sql.NullInt64
			m1, m2, scaled   sql.NullFloat64
		)
		if err := rows.Scan(&debateID, &teamID, &role, &rank, &m1, &m2, &scaled, &teamPoints); err != nil {
			return err
		}
		parsed, err := models.ParseRole(role)
		if err != nil {
			return fmt.Errorf("debate %d: %w", debateID, err)
		}
		slot := models.DebateSlot{TeamID: teamID, Role: parsed}
		if rank.Valid {
			slot.Result = &models.SlotResult{
				Rank:          int(rank.Int64),
				Member1Points: m1.Float64,
				Member2Points: m2.Float64,
				ScaledPoints:  scaled.Float64,
				TeamPoints:    int(teamPoints.Int64),
			}
		}
		if d, ok := byID[debateID]; ok {
			d.Slots[parsed.Index()] = slot
		}
	}
	return rows.Err()
}

func (r *postgresDebateRepository) SaveResults(ctx context.Context, exec SQLExecutor, debateID int, results map[int]models.SlotResult) error {
	executor := executorOr(exec, r.db)
	query := `
		UPDATE debate_slots
		SET rank = $1, member1_points = $2, member2_points = $3, scaled_points = $4, team_points = $5
		WHERE debate_id = $6 AND team_id = $7`

	for teamID, res := range results {
		result, err := executor.ExecContext(ctx, query,
			res.Rank, res.Member1Points, res.Member2Points, res.ScaledPoints, res.TeamPoints,
			debateID, teamID,
		)
		if err != nil {
			return fmt.Errorf("failed to save result of team %d in debate %d: %w", teamID, debateID, err)
		}
		if err := checkAffectedRows(result, ErrDebateSlotNotFound); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresDebateRepository) ListResultsByTournament(ctx context.Context, tournamentID int, prelimOnly bool) ([]models.Result, error) {
	query := `
		SELECT s.debate_id, s.team_id, s.role, s.rank, s.member1_points, s.member2_points, s.scaled_points, s.team_points
		FROM debate_slots s
		JOIN debates d ON d.id = s.debate_id
		WHERE d.tournament_id = $1 AND s.rank IS NOT NULL AND (NOT $2 OR NOT d.is_break)
		ORDER BY s.debate_id ASC, s.team_id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, prelimOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.Result, 0)
	for rows.Next() {
		var res models.Result
		var role string
		if err := rows.Scan(&res.DebateID, &res.TeamID, &role, &res.Rank,
			&res.Member1Points, &res.Member2Points, &res.ScaledPoints, &res.TeamPoints); err != nil {
			return nil, err
		}
		if res.Role, err = models.ParseRole(role); err != nil {
			return nil, fmt.Errorf("debate %d: %w", res.DebateID, err)
		}
		results = append(results, res)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *postgresDebateRepository) RoundExists(ctx context.Context, tournamentID int, round int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM debates WHERE tournament_id = $1 AND round_number = $2)`
	if err := r.db.QueryRowContext(ctx, query, tournamentID, round).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresDebateRepository) ListRounds(ctx context.Context, tournamentID int) ([]models.RoundSummary, error) {
	query := `
		SELECT d.round_number, bool_or(d.is_break),
		       COUNT(DISTINCT d.id),
		       COUNT(DISTINCT d.id) FILTER (WHERE NOT EXISTS (
		           SELECT 1 FROM debate_slots s WHERE s.debate_id = d.id AND s.rank IS NULL))
		FROM debates d
		WHERE d.tournament_id = $1
		GROUP BY d.round_number
		ORDER BY d.round_number ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := make([]models.RoundSummary, 0)
	for rows.Next() {
		var rs models.RoundSummary
		if err := rows.Scan(&rs.Round, &rs.IsBreak, &rs.Debates, &rs.Completed); err != nil {
			return nil, err
		}
		rounds = append(rounds, rs)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return rounds, nil
}

func (r *postgresDebateRepository) handleDebateError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			switch pqErr.Constraint {
			case "debates_tournament_id_fkey":
				return ErrDebateTournamentInvalid
			case "debate_slots_team_id_fkey":
				return ErrDebateTeamInvalid
			}
		case "23505": // unique_violation: team or role seated twice
			return ErrDebateTeamInvalid
		}
	}
	return err
}
