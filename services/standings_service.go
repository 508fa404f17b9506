package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bp-tabulator/cache"
	"github.com/Dosada05/bp-tabulator/models"
	"github.com/Dosada05/bp-tabulator/repositories"
	"github.com/Dosada05/bp-tabulator/standings"
	"golang.org/x/sync/errgroup"
)

type StandingsService interface {
	Standings(ctx context.Context, tournamentID int) ([]models.Standing, error)
	// SelectBreak returns the top breakCount teams. Zero means the
	// tournament's configured break size, or a quarter of the field when the
	// tournament has none.
	SelectBreak(ctx context.Context, tournamentID int, breakCount int) ([]models.Standing, error)
	RoleBalance(ctx context.Context, tournamentID int) ([]models.TeamRoleBalance, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	debateRepo     repositories.DebateRepository
	roleRepo       repositories.RoleBalanceRepository
	cache          cache.StandingsCache
	logger         *slog.Logger
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	debateRepo repositories.DebateRepository,
	roleRepo repositories.RoleBalanceRepository,
	standingsCache cache.StandingsCache,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		debateRepo:     debateRepo,
		roleRepo:       roleRepo,
		cache:          standingsCache,
		logger:         logger,
	}
}

func (s *standingsService) Standings(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	return s.standings(ctx, tournamentID)
}

func (s *standingsService) standings(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	cached, ok, err := s.cache.Get(ctx, tournamentID)
	if err != nil {
		s.logger.Warn("standings cache read failed", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	} else if ok {
		return cached, nil
	}

	var (
		teams   []*models.Team
		results []models.Result
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByTournament(gCtx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		results, err = s.debateRepo.ListResultsByTournament(gCtx, tournamentID, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load standings data for tournament %d: %w", tournamentID, err)
	}

	list, err := standings.Aggregate(teams, results)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, tournamentID, list); err != nil {
		s.logger.Warn("standings cache write failed", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	}
	return list, nil
}

func (s *standingsService) SelectBreak(ctx context.Context, tournamentID int, breakCount int) ([]models.Standing, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	list, err := s.standings(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if breakCount == 0 {
		breakCount = breakSizeFor(t, len(list))
	}
	breaking, err := standings.SelectBreakingTeams(list, breakCount)
	if err != nil {
		return nil, err
	}

	s.logger.Info("break selected",
		slog.Int("tournament_id", tournamentID),
		slog.Int("break_count", breakCount),
		slog.Int("teams", len(list)))
	return breaking, nil
}

func (s *standingsService) RoleBalance(ctx context.Context, tournamentID int) ([]models.TeamRoleBalance, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}

	var (
		teams  []*models.Team
		counts map[int]models.RoleCounts
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByTournament(gCtx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.roleRepo.ListByTournament(gCtx, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load role balance for tournament %d: %w", tournamentID, err)
	}

	out := make([]models.TeamRoleBalance, 0, len(teams))
	for _, t := range teams {
		out = append(out, models.TeamRoleBalance{TeamID: t.ID, TeamName: t.Name, Counts: counts[t.ID]})
	}
	return out, nil
}

// breakSizeFor returns the tournament's break size, falling back to a quarter
// of the field (never less than one room) for tournaments without break rounds.
func breakSizeFor(t *models.Tournament, teamCount int) int {
	if t.BreakSize > 0 {
		return t.BreakSize
	}
	if size := standings.DefaultBreakSize(teamCount); size > 0 {
		return size
	}
	return minTeams
}
