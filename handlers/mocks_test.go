package handlers

import (
	"context"

	"github.com/Dosada05/bp-tabulator/models"
	"github.com/Dosada05/bp-tabulator/services"
	"github.com/stretchr/testify/mock"
)

type MockTournamentService struct {
	mock.Mock
}

func (m *MockTournamentService) Create(ctx context.Context, input services.CreateTournamentInput) (*models.Tournament, error) {
	args := m.Called(ctx, input)
	t, _ := args.Get(0).(*models.Tournament)
	return t, args.Error(1)
}

func (m *MockTournamentService) Get(ctx context.Context, id int) (*models.Tournament, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.Tournament)
	return t, args.Error(1)
}

func (m *MockTournamentService) ValidateTeamCount(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTournamentService) Finalize(ctx context.Context, id int) (*models.Tournament, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*models.Tournament)
	return t, args.Error(1)
}

type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) Register(ctx context.Context, tournamentID int, input services.RegisterTeamInput) (*models.Team, error) {
	args := m.Called(ctx, tournamentID, input)
	t, _ := args.Get(0).(*models.Team)
	return t, args.Error(1)
}

func (m *MockTeamService) List(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	args := m.Called(ctx, tournamentID)
	teams, _ := args.Get(0).([]*models.Team)
	return teams, args.Error(1)
}

type MockRoundService struct {
	mock.Mock
}

func (m *MockRoundService) GenerateRound(ctx context.Context, tournamentID int, input services.GenerateRoundInput) (*services.RoundResult, error) {
	args := m.Called(ctx, tournamentID, input)
	res, _ := args.Get(0).(*services.RoundResult)
	return res, args.Error(1)
}

func (m *MockRoundService) ListDebates(ctx context.Context, tournamentID int, round *int) ([]*models.Debate, error) {
	args := m.Called(ctx, tournamentID, round)
	debates, _ := args.Get(0).([]*models.Debate)
	return debates, args.Error(1)
}

type MockResultService struct {
	mock.Mock
}

func (m *MockResultService) SubmitResults(ctx context.Context, debateID int, input services.SubmitResultsInput) (*models.Debate, error) {
	args := m.Called(ctx, debateID, input)
	d, _ := args.Get(0).(*models.Debate)
	return d, args.Error(1)
}

type MockStandingsService struct {
	mock.Mock
}

func (m *MockStandingsService) Standings(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	args := m.Called(ctx, tournamentID)
	list, _ := args.Get(0).([]models.Standing)
	return list, args.Error(1)
}

func (m *MockStandingsService) SelectBreak(ctx context.Context, tournamentID int, breakCount int) ([]models.Standing, error) {
	args := m.Called(ctx, tournamentID, breakCount)
	list, _ := args.Get(0).([]models.Standing)
	return list, args.Error(1)
}

func (m *MockStandingsService) RoleBalance(ctx context.Context, tournamentID int) ([]models.TeamRoleBalance, error) {
	args := m.Called(ctx, tournamentID)
	balance, _ := args.Get(0).([]models.TeamRoleBalance)
	return balance, args.Error(1)
}

type MockAdjudicatorService struct {
	mock.Mock
}

func (m *MockAdjudicatorService) Register(ctx context.Context, tournamentID int, input services.RegisterAdjudicatorInput) (*models.Adjudicator, error) {
	args := m.Called(ctx, tournamentID, input)
	adj, _ := args.Get(0).(*models.Adjudicator)
	return adj, args.Error(1)
}

func (m *MockAdjudicatorService) List(ctx context.Context, tournamentID int) ([]*models.Adjudicator, error) {
	args := m.Called(ctx, tournamentID)
	adjudicators, _ := args.Get(0).([]*models.Adjudicator)
	return adjudicators, args.Error(1)
}

func (m *MockAdjudicatorService) Allocations(ctx context.Context, tournamentID int, round int) (*services.RoundAllocations, error) {
	args := m.Called(ctx, tournamentID, round)
	allocations, _ := args.Get(0).(*services.RoundAllocations)
	return allocations, args.Error(1)
}

func (m *MockAdjudicatorService) AllocateRound(ctx context.Context, tournamentID int, round int) (*services.RoundAllocations, error) {
	args := m.Called(ctx, tournamentID, round)
	allocations, _ := args.Get(0).(*services.RoundAllocations)
	return allocations, args.Error(1)
}
