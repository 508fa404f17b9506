package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/Dosada05/bp-tabulator/brackets"
	"github.com/Dosada05/bp-tabulator/models"
	"github.com/Dosada05/bp-tabulator/repositories"
	"github.com/Dosada05/bp-tabulator/standings"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

type GenerateRoundInput struct {
	Round int `json:"round" validate:"min=1"`
	// IsBreak defaults to whether Round lies past the preliminary rounds.
	IsBreak *bool `json:"is_break"`
	// TeamIDs restricts the draw to the listed teams.
	TeamIDs []int `json:"team_ids" validate:"omitempty,dive,min=1"`
}

type RoundResult struct {
	Plan    *brackets.Plan   `json:"plan"`
	Debates []*models.Debate `json:"debates"`
}

type RoundService interface {
	GenerateRound(ctx context.Context, tournamentID int, input GenerateRoundInput) (*RoundResult, error)
	ListDebates(ctx context.Context, tournamentID int, round *int) ([]*models.Debate, error)
}

type roundService struct {
	tx             repositories.Transactor
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	debateRepo     repositories.DebateRepository
	roleRepo       repositories.RoleBalanceRepository
	cache          standingsInvalidator
	validate       *validator.Validate
	logger         *slog.Logger
	seed           uint64
}

type standingsInvalidator interface {
	Invalidate(ctx context.Context, tournamentID int) error
}

// NewRoundService builds the round generator. A non-zero seed makes every
// random draw reproducible per tournament and round.
func NewRoundService(
	tx repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	debateRepo repositories.DebateRepository,
	roleRepo repositories.RoleBalanceRepository,
	cache standingsInvalidator,
	validate *validator.Validate,
	logger *slog.Logger,
	seed uint64,
) RoundService {
	return &roundService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		debateRepo:     debateRepo,
		roleRepo:       roleRepo,
		cache:          cache,
		validate:       validate,
		logger:         logger,
		seed:           seed,
	}
}

// roundSnapshot is everything a draw reads, loaded up front.
type roundSnapshot struct {
	tournament *models.Tournament
	teams      []*models.Team
	results    []models.Result
	counts     map[int]models.RoleCounts
	rounds     []models.RoundSummary
	exists     bool
}

func (s *roundService) GenerateRound(ctx context.Context, tournamentID int, input GenerateRoundInput) (*RoundResult, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	snap, err := s.loadSnapshot(ctx, tournamentID, input.Round)
	if err != nil {
		return nil, err
	}
	t := snap.tournament

	if t.Status == models.StatusCompleted {
		return nil, ErrTournamentCompleted
	}
	if last := t.NumRounds + t.BreakRounds; input.Round > last {
		return nil, fieldError("round", fmt.Sprintf("must be at most %d", last))
	}
	if snap.exists {
		return nil, fmt.Errorf("%w: round %d of tournament %d", ErrRoundAlreadyExists, input.Round, tournamentID)
	}
	prev, err := previousRound(snap.rounds, input.Round)
	if err != nil {
		return nil, err
	}

	isBreak := input.Round > t.NumRounds
	if input.IsBreak != nil {
		isBreak = *input.IsBreak
	}
	if input.Round == 1 {
		if err := validateTeamCount(len(snap.teams), t.BreakSize); err != nil {
			return nil, err
		}
	}

	table, err := standings.Aggregate(snap.teams, snap.results)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate standings for tournament %d: %w", tournamentID, err)
	}

	participants, err := s.selectParticipants(ctx, snap, table, input, isBreak, prev)
	if err != nil {
		return nil, err
	}

	pairer := brackets.NewPairer(brackets.NewRoleLedger(snap.counts), s.newRNG(tournamentID, input.Round))
	plan, err := pairer.GeneratePairings(participants, table, input.Round, isBreak)
	if err != nil {
		return nil, fmt.Errorf("failed to pair round %d of tournament %d: %w", input.Round, tournamentID, err)
	}
	debates := plan.ToDebates(tournamentID)

	// Комнаты и счетчики ролей сохраняются одной транзакцией
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, d := range debates {
			if err := s.debateRepo.Create(ctx, exec, d); err != nil {
				return fmt.Errorf("failed to create debate: %w", err)
			}
		}
		for _, a := range plan.Assignments() {
			if err := s.roleRepo.Increment(ctx, exec, tournamentID, a.Team.ID, a.Role); err != nil {
				return fmt.Errorf("failed to record role %s for team %d: %w", a.Role, a.Team.ID, err)
			}
		}
		if err := s.tournamentRepo.UpdateCurrentRound(ctx, exec, tournamentID, input.Round); err != nil {
			return err
		}
		if t.Status == models.StatusRegistration {
			return s.tournamentRepo.UpdateStatus(ctx, exec, tournamentID, models.StatusActive)
		}
		return nil
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	if err := s.cache.Invalidate(ctx, tournamentID); err != nil {
		s.logger.Warn("failed to invalidate standings cache", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	}

	s.logger.Info("round generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("round", input.Round),
		slog.Bool("is_break", isBreak),
		slog.String("strategy", plan.Strategy),
		slog.Int("debates", len(debates)),
		slog.Int("excluded", len(plan.Excluded)))

	return &RoundResult{Plan: plan, Debates: debates}, nil
}

func (s *roundService) loadSnapshot(ctx context.Context, tournamentID, round int) (*roundSnapshot, error) {
	snap := &roundSnapshot{}
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
		teams, err := s.teamRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		snap.teams = teams
		return nil
	})
	g.Go(func() error {
		results, err := s.debateRepo.ListResultsByTournament(gCtx, tournamentID, true)
		if err != nil {
			return fmt.Errorf("failed to list results: %w", err)
		}
		snap.results = results
		return nil
	})
	g.Go(func() error {
		counts, err := s.roleRepo.ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load role balance: %w", err)
		}
		snap.counts = counts
		return nil
	})
	g.Go(func() error {
		rounds, err := s.debateRepo.ListRounds(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list rounds: %w", err)
		}
		snap.rounds = rounds
		return nil
	})
	g.Go(func() error {
		exists, err := s.debateRepo.RoundExists(gCtx, tournamentID, round)
		if err != nil {
			return fmt.Errorf("failed to check round %d: %w", round, err)
		}
		snap.exists = exists
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// previousRound returns the summary of round-1, which must be fully scored
// before round can be drawn. Round one has no predecessor.
func previousRound(rounds []models.RoundSummary, round int) (*models.RoundSummary, error) {
	if round == 1 {
		return nil, nil
	}
	for i := range rounds {
		if rounds[i].Round != round-1 {
			continue
		}
		if !rounds[i].IsComplete() {
			return nil, fmt.Errorf("%w: round %d has %d of %d debates scored",
				ErrPreviousRoundIncomplete, round-1, rounds[i].Completed, rounds[i].Debates)
		}
		return &rounds[i], nil
	}
	return nil, fmt.Errorf("%w: round %d has not been generated", ErrPreviousRoundIncomplete, round-1)
}

// selectParticipants decides who is drawn. Explicit IDs win. The first break
// round takes the top of the tab; later break rounds take the two best teams
// of every room of the previous break round.
func (s *roundService) selectParticipants(
	ctx context.Context,
	snap *roundSnapshot,
	table []models.Standing,
	input GenerateRoundInput,
	isBreak bool,
	prev *models.RoundSummary,
) ([]*models.Team, error) {
	byID := make(map[int]*models.Team, len(snap.teams))
	for _, t := range snap.teams {
		byID[t.ID] = t
	}

	switch {
	case len(input.TeamIDs) > 0:
		out := make([]*models.Team, 0, len(input.TeamIDs))
		for _, id := range input.TeamIDs {
			team, ok := byID[id]
			if !ok {
				return nil, fieldError("team_ids", fmt.Sprintf("team %d is not registered in this tournament", id))
			}
			out = append(out, team)
		}
		return out, nil

	case isBreak && (prev == nil || !prev.IsBreak):
		breaking, err := standings.SelectBreakingTeams(table, breakSizeFor(snap.tournament, len(table)))
		if err != nil {
			return nil, err
		}
		out := make([]*models.Team, 0, len(breaking))
		for _, st := range breaking {
			if team, ok := byID[st.TeamID]; ok {
				out = append(out, team)
			}
		}
		return out, nil

	case isBreak:
		round := prev.Round
		debates, err := s.debateRepo.ListByTournament(ctx, snap.tournament.ID, &round)
		if err != nil {
			return nil, fmt.Errorf("failed to list debates of round %d: %w", round, err)
		}
		return advancingTeams(debates, byID), nil
	}

	return snap.teams, nil
}

// advancingTeams returns the first and second placed teams of each room,
// room by room.
func advancingTeams(debates []*models.Debate, byID map[int]*models.Team) []*models.Team {
	out := make([]*models.Team, 0, len(debates)*2)
	for _, d := range debates {
		for rank := 1; rank <= 2; rank++ {
			for _, slot := range d.Slots {
				if slot.Result == nil || slot.Result.Rank != rank {
					continue
				}
				if team, ok := byID[slot.TeamID]; ok {
					out = append(out, team)
				}
			}
		}
	}
	return out
}

func (s *roundService) newRNG(tournamentID, round int) *rand.Rand {
	if s.seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(s.seed, uint64(tournamentID)<<32|uint64(round)))
}

func (s *roundService) ListDebates(ctx context.Context, tournamentID int, round *int) ([]*models.Debate, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	debates, err := s.debateRepo.ListByTournament(ctx, tournamentID, round)
	if err != nil {
		return nil, fmt.Errorf("failed to list debates for tournament %d: %w", tournamentID, err)
	}
	if debates == nil {
		return []*models.Debate{}, nil
	}
	return debates, nil
}
