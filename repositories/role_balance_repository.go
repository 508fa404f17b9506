package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/bp-tabulator/models"
)

type RoleBalanceRepository interface {
	ListByTournament(ctx context.Context, tournamentID int) (map[int]models.RoleCounts, error)
	// Increment adds one to the team's counter for role, creating the row when needed.
	Increment(ctx context.Context, exec SQLExecutor, tournamentID, teamID int, role models.Role) error
}

type postgresRoleBalanceRepository struct {
	db *sql.DB
}

func NewPostgresRoleBalanceRepository(db *sql.DB) RoleBalanceRepository {
	return &postgresRoleBalanceRepository{db: db}
}

func (r *postgresRoleBalanceRepository) ListByTournament(ctx context.Context, tournamentID int) (map[int]models.RoleCounts, error) {
	query := `
		SELECT team_id, og_count, oo_count, cg_count, co_count
		FROM role_balance
		WHERE tournament_id = $1`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]models.RoleCounts)
	for rows.Next() {
		var teamID int
		var c models.RoleCounts
		if err := rows.Scan(&teamID, &c.OG, &c.OO, &c.CG, &c.CO); err != nil {
			return nil, err
		}
		counts[teamID] = c
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

var roleColumns = map[models.Role]string{
	models.RoleOG: "og_count",
	models.RoleOO: "oo_count",
	models.RoleCG: "cg_count",
	models.RoleCO: "co_count",
}

func (r *postgresRoleBalanceRepository) Increment(ctx context.Context, exec SQLExecutor, tournamentID, teamID int, role models.Role) error {
	column, ok := roleColumns[role]
	if !ok {
		return fmt.Errorf("unknown role %q", role)
	}
	// column comes from the fixed map above, never from input.
	query := fmt.Sprintf(`
		INSERT INTO role_balance (tournament_id, team_id, %[1]s)
		VALUES ($1, $2, 1)
		ON CONFLICT (tournament_id, team_id)
		DO UPDATE SET %[1]s = role_balance.%[1]s + 1`, column)

	_, err := executorOr(exec, r.db).ExecContext(ctx, query, tournamentID, teamID)
	return err
}
