package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/bp-tabulator/brackets"
	"github.com/Dosada05/bp-tabulator/models"
	"github.com/Dosada05/bp-tabulator/repositories"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

type RegisterAdjudicatorInput struct {
	Name        string                  `json:"name" validate:"required,max=100"`
	Email       *string                 `json:"email" validate:"omitempty,email"`
	Institution *string                 `json:"institution" validate:"omitempty,max=200"`
	Level       models.AdjudicatorLevel `json:"level" validate:"required,oneof=novice experienced expert"`
}

// RoundAllocations lists the panels of a round. Saved is false when the
// panels are only a suggestion.
type RoundAllocations struct {
	Round       int                 `json:"round_number"`
	Saved       bool                `json:"saved"`
	Allocations []models.Allocation `json:"allocations"`
}

type AdjudicatorService interface {
	Register(ctx context.Context, tournamentID int, input RegisterAdjudicatorInput) (*models.Adjudicator, error)
	List(ctx context.Context, tournamentID int) ([]*models.Adjudicator, error)
	// Allocations returns the saved panels of a round, or suggested ones when
	// none were saved yet.
	Allocations(ctx context.Context, tournamentID int, round int) (*RoundAllocations, error)
	// AllocateRound computes fresh panels and stores them, replacing earlier ones.
	AllocateRound(ctx context.Context, tournamentID int, round int) (*RoundAllocations, error)
}

type adjudicatorService struct {
	tx              repositories.Transactor
	tournamentRepo  repositories.TournamentRepository
	debateRepo      repositories.DebateRepository
	adjudicatorRepo repositories.AdjudicatorRepository
	validate        *validator.Validate
	logger          *slog.Logger
}

func NewAdjudicatorService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	debateRepo repositories.DebateRepository,
	adjudicatorRepo repositories.AdjudicatorRepository,
	validate *validator.Validate,
	logger *slog.Logger,
) AdjudicatorService {
	return &adjudicatorService{
		tx:              tx,
		tournamentRepo:  tournamentRepo,
		debateRepo:      debateRepo,
		adjudicatorRepo: adjudicatorRepo,
		validate:        validate,
		logger:          logger,
	}
}

func (s *adjudicatorService) Register(ctx context.Context, tournamentID int, input RegisterAdjudicatorInput) (*models.Adjudicator, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Level = models.AdjudicatorLevel(strings.ToLower(strings.TrimSpace(string(input.Level))))
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

	adj := &models.Adjudicator{
		TournamentID: tournamentID,
		Name:         input.Name,
		Email:        input.Email,
		Institution:  input.Institution,
		Level:        input.Level,
	}
	if err := s.adjudicatorRepo.Create(ctx, adj); err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.Info("adjudicator registered",
		slog.Int("tournament_id", tournamentID),
		slog.Int("adjudicator_id", adj.ID),
		slog.String("level", string(adj.Level)))
	return adj, nil
}

func (s *adjudicatorService) List(ctx context.Context, tournamentID int) ([]*models.Adjudicator, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	adjudicators, err := s.adjudicatorRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjudicators for tournament %d: %w", tournamentID, err)
	}
	if adjudicators == nil {
		return []*models.Adjudicator{}, nil
	}
	return adjudicators, nil
}

// allocationSnapshot is what an allocation reads.
type allocationSnapshot struct {
	tournament   *models.Tournament
	debates      []*models.Debate
	adjudicators []*models.Adjudicator
	history      []models.JudgedTeam
	saved        map[int][]*models.Adjudicator
}

func (s *adjudicatorService) load(ctx context.Context, tournamentID, round int) (*allocationSnapshot, error) {
	if round < 1 {
		return nil, fieldError("round", "must be at least 1")
	}

	snap := &allocationSnapshot{}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.tournamentRepo.GetByID(gCtx, tournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}
		snap.tournament = t
		return nil
	})
	g.Go(func() error {
		debates, err := s.debateRepo.ListByTournament(gCtx, tournamentID, &round)
		if err != nil {
			return fmt.Errorf("failed to list debates of round %d: %w", round, err)
		}
		snap.debates = debates
		return nil
	})
	g.Go(func() error {
		adjudicators, err := s.adjudicatorRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list adjudicators: %w", err)
		}
		snap.adjudicators = adjudicators
		return nil
	})
	g.Go(func() error {
		history, err := s.adjudicatorRepo.ListJudgedTeams(gCtx, tournamentID, round)
		if err != nil {
			return fmt.Errorf("failed to load adjudication history: %w", err)
		}
		snap.history = history
		return nil
	})
	g.Go(func() error {
		saved, err := s.adjudicatorRepo.ListAllocations(gCtx, tournamentID, round)
		if err != nil {
			return fmt.Errorf("failed to list panels of round %d: %w", round, err)
		}
		snap.saved = saved
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(snap.debates) == 0 {
		return nil, fmt.Errorf("%w: round %d of tournament %d", ErrRoundNotFound, round, tournamentID)
	}
	return snap, nil
}

func (s *adjudicatorService) Allocations(ctx context.Context, tournamentID int, round int) (*RoundAllocations, error) {
	snap, err := s.load(ctx, tournamentID, round)
	if err != nil {
		return nil, err
	}

	if len(snap.saved) > 0 {
		out := make([]models.Allocation, 0, len(snap.debates))
		for _, d := range snap.debates {
			panel := snap.saved[d.ID]
			if panel == nil {
				panel = []*models.Adjudicator{}
			}
			out = append(out, models.Allocation{DebateID: d.ID, Adjudicators: panel})
		}
		return &RoundAllocations{Round: round, Saved: true, Allocations: out}, nil
	}

	return &RoundAllocations{
		Round:       round,
		Allocations: brackets.AllocateAdjudicators(snap.debates, snap.adjudicators, snap.history),
	}, nil
}

func (s *adjudicatorService) AllocateRound(ctx context.Context, tournamentID int, round int) (*RoundAllocations, error) {
	snap, err := s.load(ctx, tournamentID, round)
	if err != nil {
		return nil, err
	}
	if snap.tournament.Status == models.StatusCompleted {
		return nil, ErrTournamentCompleted
	}

	allocations := brackets.AllocateAdjudicators(snap.debates, snap.adjudicators, snap.history)
	debateIDs := make([]int, len(snap.debates))
	for i, d := range snap.debates {
		debateIDs[i] = d.ID
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.adjudicatorRepo.ReplaceAllocations(ctx, exec, debateIDs, allocations)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	placed := 0
	for _, a := range allocations {
		placed += len(a.Adjudicators)
	}
	s.logger.Info("adjudicators allocated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("round", round),
		slog.Int("debates", len(allocations)),
		slog.Int("placed", placed),
		slog.Int("pool", len(snap.adjudicators)))

	return &RoundAllocations{Round: round, Saved: true, Allocations: allocations}, nil
}
