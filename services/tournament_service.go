package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/bp-tabulator/models"
	"github.com/Dosada05/bp-tabulator/repositories"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

const minTeams = 4

type CreateTournamentInput struct {
	Name        string    `json:"name" validate:"required,min=3,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=1000"`
	Location    *string   `json:"location" validate:"omitempty,max=200"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtefield=StartDate"`
	NumRounds   int       `json:"num_rounds" validate:"min=1,max=20"`
	BreakRounds int       `json:"break_rounds" validate:"min=0,max=5"`
	BreakSize   int       `json:"break_size" validate:"min=0"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	Get(ctx context.Context, id int) (*models.Tournament, error)
	ValidateTeamCount(ctx context.Context, id int) error
	Finalize(ctx context.Context, id int) (*models.Tournament, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	debateRepo     repositories.DebateRepository
	validate       *validator.Validate
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	debateRepo repositories.DebateRepository,
	validate *validator.Validate,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		debateRepo:     debateRepo,
		validate:       validate,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}
	if input.BreakRounds > 0 {
		want := bracketSize(input.BreakRounds)
		if input.BreakSize == 0 {
			input.BreakSize = want
		}
		if input.BreakSize != want {
			return nil, fieldError("break_size", fmt.Sprintf("must be %d for %d break rounds", want, input.BreakRounds))
		}
	} else if input.BreakSize != 0 {
		return nil, fieldError("break_size", "must be 0 when there are no break rounds")
	}

	t := &models.Tournament{
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		NumRounds:   input.NumRounds,
		BreakRounds: input.BreakRounds,
		BreakSize:   input.BreakSize,
		Status:      models.StatusRegistration,
	}
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.Info("tournament created",
		slog.Int("tournament_id", t.ID),
		slog.String("name", t.Name),
		slog.Int("num_rounds", t.NumRounds),
		slog.Int("break_rounds", t.BreakRounds))
	return t, nil
}

func (s *tournamentService) Get(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return t, nil
}

func (s *tournamentService) ValidateTeamCount(ctx context.Context, id int) error {
	var (
		t     *models.Tournament
		teams []*models.Team
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		t, err = s.tournamentRepo.GetByID(gCtx, id)
		return handleRepositoryError(err)
	})
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByTournament(gCtx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return validateTeamCount(len(teams), t.BreakSize)
}

// bracketSize is the number of breaking teams that lets every knockout room
// send its top two on until a single final room remains.
func bracketSize(breakRounds int) int {
	return minTeams << (breakRounds - 1)
}

// validateTeamCount requires four teams for a single room and enough teams to
// fill the break.
func validateTeamCount(teamCount, breakSize int) error {
	if teamCount < minTeams {
		return fmt.Errorf("%w: tournament must have at least %d teams, got %d", ErrNotEnoughTeams, minTeams, teamCount)
	}
	if teamCount < breakSize {
		return fmt.Errorf("%w: at least %d teams are required to fill a break of %d, got %d", ErrNotEnoughTeams, breakSize, breakSize, teamCount)
	}
	return nil
}

func (s *tournamentService) Finalize(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if t.Status == models.StatusCompleted {
		return nil, ErrTournamentCompleted
	}

	rounds, err := s.debateRepo.ListRounds(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds for tournament %d: %w", id, err)
	}
	if err := checkFinalizable(t, rounds); err != nil {
		return nil, err
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, models.StatusCompleted); err != nil {
		return nil, handleRepositoryError(err)
	}
	t.Status = models.StatusCompleted

	s.logger.Info("tournament finalized", slog.Int("tournament_id", id), slog.Int("rounds", len(rounds)))
	return t, nil
}

func checkFinalizable(t *models.Tournament, rounds []models.RoundSummary) error {
	var prelims, breaks int
	for _, r := range rounds {
		if !r.IsComplete() {
			continue
		}
		if r.IsBreak {
			breaks++
		} else {
			prelims++
		}
	}

	if prelims < t.NumRounds {
		return fmt.Errorf("%w: only %d of %d preliminary rounds are completed", ErrTournamentNotFinalizable, prelims, t.NumRounds)
	}
	if breaks < t.BreakRounds {
		return fmt.Errorf("%w: only %d of %d break rounds are completed", ErrTournamentNotFinalizable, breaks, t.BreakRounds)
	}
	return nil
}
