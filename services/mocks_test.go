package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/Dosada05/bp-tabulator/models"
	"github.com/Dosada05/bp-tabulator/repositories"
	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTransactor runs the unit of work without a database.
type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.calls++
	return fn(nil)
}

type MockTournamentRepository struct {
	mock.Mock
}

func (m *MockTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	args := m.Called(ctx, tournament)
	return args.Error(0)
}

func (m *MockTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.Tournament)
	return t, args.Error(1)
}

func (m *MockTournamentRepository) UpdateCurrentRound(ctx context.Context, exec repositories.SQLExecutor, id int, round int) error {
	args := m.Called(ctx, exec, id, round)
	return args.Error(0)
}

func (m *MockTournamentRepository) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	args := m.Called(ctx, exec, id, status)
	return args.Error(0)
}

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *models.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.Team)
	return t, args.Error(1)
}

func (m *MockTeamRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	args := m.Called(ctx, tournamentID)
	teams, _ := args.Get(0).([]*models.Team)
	return teams, args.Error(1)
}

type MockDebateRepository struct {
	mock.Mock
}

func (m *MockDebateRepository) Create(ctx context.Context, exec repositories.SQLExecutor, debate *models.Debate) error {
	args := m.Called(ctx, exec, debate)
	return args.Error(0)
}

func (m *MockDebateRepository) GetByID(ctx context.Context, id int) (*models.Debate, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*models.Debate)
	return d, args.Error(1)
}

func (m *MockDebateRepository) ListByTournament(ctx context.Context, tournamentID int, round *int) ([]*models.Debate, error) {
	args := m.Called(ctx, tournamentID, round)
	debates, _ := args.Get(0).([]*models.Debate)
	return debates, args.Error(1)
}

func (m *MockDebateRepository) SaveResults(ctx context.Context, exec repositories.SQLExecutor, debateID int, results map[int]models.SlotResult) error {
	args := m.Called(ctx, exec, debateID, results)
	return args.Error(0)
}

func (m *MockDebateRepository) ListResultsByTournament(ctx context.Context, tournamentID int, prelimOnly bool) ([]models.Result, error) {
	args := m.Called(ctx, tournamentID, prelimOnly)
	results, _ := args.Get(0).([]models.Result)
	return results, args.Error(1)
}

func (m *MockDebateRepository) RoundExists(ctx context.Context, tournamentID int, round int) (bool, error) {
	args := m.Called(ctx, tournamentID, round)
	return args.Bool(0), args.Error(1)
}

func (m *MockDebateRepository) ListRounds(ctx context.Context, tournamentID int) ([]models.RoundSummary, error) {
	args := m.Called(ctx, tournamentID)
	rounds, _ := args.Get(0).([]models.RoundSummary)
	return rounds, args.Error(1)
}

type MockRoleBalanceRepository struct {
	mock.Mock
}

func (m *MockRoleBalanceRepository) ListByTournament(ctx context.Context, tournamentID int) (map[int]models.RoleCounts, error) {
	args := m.Called(ctx, tournamentID)
	counts, _ := args.Get(0).(map[int]models.RoleCounts)
	return counts, args.Error(1)
}

func (m *MockRoleBalanceRepository) Increment(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamID int, role models.Role) error {
	args := m.Called(ctx, exec, tournamentID, teamID, role)
	return args.Error(0)
}

type MockAdjudicatorRepository struct {
	mock.Mock
}

func (m *MockAdjudicatorRepository) Create(ctx context.Context, adjudicator *models.Adjudicator) error {
	args := m.Called(ctx, adjudicator)
	return args.Error(0)
}

func (m *MockAdjudicatorRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Adjudicator, error) {
	args := m.Called(ctx, tournamentID)
	adjudicators, _ := args.Get(0).([]*models.Adjudicator)
	return adjudicators, args.Error(1)
}

func (m *MockAdjudicatorRepository) ListJudgedTeams(ctx context.Context, tournamentID int, beforeRound int) ([]models.JudgedTeam, error) {
	args := m.Called(ctx, tournamentID, beforeRound)
	judged, _ := args.Get(0).([]models.JudgedTeam)
	return judged, args.Error(1)
}

func (m *MockAdjudicatorRepository) ListAllocations(ctx context.Context, tournamentID int, round int) (map[int][]*models.Adjudicator, error) {
	args := m.Called(ctx, tournamentID, round)
	panels, _ := args.Get(0).(map[int][]*models.Adjudicator)
	return panels, args.Error(1)
}

func (m *MockAdjudicatorRepository) ReplaceAllocations(ctx context.Context, exec repositories.SQLExecutor, debateIDs []int, allocations []models.Allocation) error {
	args := m.Called(ctx, exec, debateIDs, allocations)
	return args.Error(0)
}

type MockStandingsCache struct {
	mock.Mock
}

func (m *MockStandingsCache) Get(ctx context.Context, tournamentID int) ([]models.Standing, bool, error) {
	args := m.Called(ctx, tournamentID)
	list, _ := args.Get(0).([]models.Standing)
	return list, args.Bool(1), args.Error(2)
}

func (m *MockStandingsCache) Set(ctx context.Context, tournamentID int, list []models.Standing) error {
	args := m.Called(ctx, tournamentID, list)
	return args.Error(0)
}

func (m *MockStandingsCache) Invalidate(ctx context.Context, tournamentID int) error {
	args := m.Called(ctx, tournamentID)
	return args.Error(0)
}

// memoryStandingsCache is a StandingsCache backed by a map.
type memoryStandingsCache struct {
	mu    sync.Mutex
	items map[int][]models.Standing
}

func newMemoryStandingsCache() *memoryStandingsCache {
	return &memoryStandingsCache{items: make(map[int][]models.Standing)}
}

func (c *memoryStandingsCache) Get(_ context.Context, tournamentID int) ([]models.Standing, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, ok := c.items[tournamentID]
	return list, ok, nil
}

func (c *memoryStandingsCache) Set(_ context.Context, tournamentID int, list []models.Standing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[tournamentID] = list
	return nil
}

func (c *memoryStandingsCache) Invalidate(_ context.Context, tournamentID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, tournamentID)
	return nil
}

func makeTeams(n int) []*models.Team {
	teams := make([]*models.Team, n)
	for i := range teams {
		teams[i] = &models.Team{ID: i + 1, TournamentID: 1, Name: string(rune('A' + i))}
	}
	return teams
}

// scoredDebate returns the four results of a debate in which teamIDs finish
// in the given order.
func scoredDebate(debateID int, teamIDs [4]int) []models.Result {
	out := make([]models.Result, 4)
	for i, id := range teamIDs {
		out[i] = models.Result{
			DebateID: debateID,
			TeamID:   id,
			Role:     models.Roles[i],
			SlotResult: models.SlotResult{
				Rank:          i + 1,
				Member1Points: float64(80 - i),
				Member2Points: float64(80 - i),
				ScaledPoints:  float64(100 - i*33),
				TeamPoints:    3 - i,
			},
		}
	}
	return out
}
