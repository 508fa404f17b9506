package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bp-tabulator/models"
	"github.com/Dosada05/bp-tabulator/repositories"
	"github.com/Dosada05/bp-tabulator/scoring"
	"github.com/go-playground/validator/v10"
)

type ResultEntryInput struct {
	TeamID        int     `json:"team_id" validate:"required,min=1"`
	Rank          int     `json:"rank"`
	Member1Points float64 `json:"member1_points" validate:"gte=0"`
	Member2Points float64 `json:"member2_points" validate:"gte=0"`
}

type SubmitResultsInput struct {
	Results []ResultEntryInput `json:"results" validate:"required,dive"`
}

type ResultService interface {
	// SubmitResults scores a debate as a whole. A resubmission overwrites
	// the previous results of the debate.
	SubmitResults(ctx context.Context, debateID int, input SubmitResultsInput) (*models.Debate, error)
}

type resultService struct {
	tx         repositories.Transactor
	debateRepo repositories.DebateRepository
	cache      standingsInvalidator
	validate   *validator.Validate
	logger     *slog.Logger
}

func NewResultService(
	tx repositories.Transactor,
	debateRepo repositories.DebateRepository,
	cache standingsInvalidator,
	validate *validator.Validate,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		tx:         tx,
		debateRepo: debateRepo,
		cache:      cache,
		validate:   validate,
		logger:     logger,
	}
}

func (s *resultService) SubmitResults(ctx context.Context, debateID int, input SubmitResultsInput) (*models.Debate, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	debate, err := s.debateRepo.GetByID(ctx, debateID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	seated := make(map[int]bool, len(debate.Slots))
	for _, slot := range debate.Slots {
		seated[slot.TeamID] = true
	}
	entries := make([]scoring.Entry, 0, len(input.Results))
	submitted := make(map[int]bool, len(input.Results))
	for _, r := range input.Results {
		if !seated[r.TeamID] {
			return nil, fmt.Errorf("%w: team %d, debate %d", ErrTeamNotInDebate, r.TeamID, debateID)
		}
		if submitted[r.TeamID] {
			return nil, fieldError("results", fmt.Sprintf("team %d is listed more than once", r.TeamID))
		}
		submitted[r.TeamID] = true
		entries = append(entries, scoring.Entry{
			TeamID:        r.TeamID,
			Rank:          r.Rank,
			Member1Points: r.Member1Points,
			Member2Points: r.Member2Points,
		})
	}

	scored, err := scoring.ScoreDebate(entries)
	if err != nil {
		var incomplete *scoring.IncompleteResultSetError
		if errors.As(err, &incomplete) {
			incomplete.DebateID = debateID
		}
		return nil, err
	}

	results := make(map[int]models.SlotResult, len(scored))
	for _, sc := range scored {
		results[sc.TeamID] = models.SlotResult{
			Rank:          sc.Rank,
			Member1Points: sc.Member1Points,
			Member2Points: sc.Member2Points,
			ScaledPoints:  sc.ScaledPoints,
			TeamPoints:    sc.TeamPoints,
		}
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.debateRepo.SaveResults(ctx, exec, debateID, results)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	for i := range debate.Slots {
		res := results[debate.Slots[i].TeamID]
		debate.Slots[i].Result = &res
	}

	if err := s.cache.Invalidate(ctx, debate.TournamentID); err != nil {
		s.logger.Warn("failed to invalidate standings cache", slog.Int("tournament_id", debate.TournamentID), slog.Any("error", err))
	}

	s.logger.Info("debate results submitted",
		slog.Int("tournament_id", debate.TournamentID),
		slog.Int("debate_id", debateID),
		slog.Int("round", debate.Round))
	return debate, nil
}
