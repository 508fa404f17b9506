package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/bp-tabulator/models"
	"github.com/Dosada05/bp-tabulator/repositories"
	"github.com/go-playground/validator/v10"
)

type RegisterTeamInput struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Institution *string          `json:"institution" validate:"omitempty,max=200"`
	Members     [2]models.Member `json:"members" validate:"dive"`
}

type TeamService interface {
	Register(ctx context.Context, tournamentID int, input RegisterTeamInput) (*models.Team, error)
	List(ctx context.Context, tournamentID int) ([]*models.Team, error)
}

type teamService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	cache          standingsInvalidator
	validate       *validator.Validate
	logger         *slog.Logger
}

func NewTeamService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	cache standingsInvalidator,
	validate *validator.Validate,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		cache:          cache,
		validate:       validate,
		logger:         logger,
	}
}

func (s *teamService) Register(ctx context.Context, tournamentID int, input RegisterTeamInput) (*models.Team, error) {
	input.Name = strings.TrimSpace(input.Name)
	for i := range input.Members {
		input.Members[i].Name = strings.TrimSpace(input.Members[i].Name)
	}
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if t.Status == models.StatusCompleted {
		return nil, ErrTournamentCompleted
	}

	team := &models.Team{
		TournamentID: tournamentID,
		Name:         input.Name,
		Institution:  input.Institution,
		Members:      input.Members,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, handleRepositoryError(err)
	}
	// Новая команда должна появиться в таблице с нулевой строкой
	if err := s.cache.Invalidate(ctx, tournamentID); err != nil {
		s.logger.Warn("failed to invalidate standings cache", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	}

	s.logger.Info("team registered",
		slog.Int("tournament_id", tournamentID),
		slog.Int("team_id", team.ID),
		slog.String("name", team.Name),
		slog.String("institution", derefString(team.Institution)))
	return team, nil
}

func (s *teamService) List(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}
	if teams == nil {
		return []*models.Team{}, nil
	}
	return teams, nil
}
