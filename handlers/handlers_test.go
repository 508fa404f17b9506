package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/bp-tabulator/brackets"
	"github.com/Dosada05/bp-tabulator/middleware"
	"github.com/Dosada05/bp-tabulator/models"
	"github.com/Dosada05/bp-tabulator/scoring"
	"github.com/Dosada05/bp-tabulator/services"
	"github.com/Dosada05/bp-tabulator/standings"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router      *chi.Mux
	tournaments *MockTournamentService
	teams       *MockTeamService
	rounds      *MockRoundService
	results     *MockResultService
	standings   *MockStandingsService
	judges      *MockAdjudicatorService
}

func newTestServer(t *testing.T) *testServer {
	s := &testServer{
		router:      chi.NewRouter(),
		tournaments: new(MockTournamentService),
		teams:       new(MockTeamService),
		rounds:      new(MockRoundService),
		results:     new(MockResultService),
		standings:   new(MockStandingsService),
		judges:      new(MockAdjudicatorService),
	}
	th := NewTournamentHandler(s.tournaments)
	teamH := NewTeamHandler(s.teams)
	rh := NewRoundHandler(s.rounds, s.results)
	sh := NewStandingsHandler(s.standings)
	ah := NewAdjudicatorHandler(s.judges)

	s.router.Post("/tournaments", th.CreateHandler)
	s.router.Get("/tournaments/{tournamentID}", th.GetByIDHandler)
	s.router.Get("/tournaments/{tournamentID}/readiness", th.ReadinessHandler)
	s.router.Post("/tournaments/{tournamentID}/finalize", th.FinalizeHandler)
	s.router.Post("/tournaments/{tournamentID}/teams", teamH.RegisterTeam)
	s.router.Get("/tournaments/{tournamentID}/teams", teamH.ListTeams)
	s.router.Post("/tournaments/{tournamentID}/rounds", rh.GenerateRound)
	s.router.Get("/tournaments/{tournamentID}/debates", rh.ListDebates)
	s.router.Post("/debates/{debateID}/results", rh.SubmitResults)
	s.router.Get("/tournaments/{tournamentID}/standings", sh.GetStandings)
	s.router.Get("/tournaments/{tournamentID}/break", sh.GetBreak)
	s.router.Get("/tournaments/{tournamentID}/roles", sh.GetRoleBalance)
	s.router.Post("/tournaments/{tournamentID}/adjudicators", ah.RegisterAdjudicator)
	s.router.Get("/tournaments/{tournamentID}/adjudicators", ah.ListAdjudicators)
	s.router.Get("/tournaments/{tournamentID}/rounds/{round}/allocations", ah.GetAllocations)
	s.router.Post("/tournaments/{tournamentID}/rounds/{round}/allocations", ah.AllocateRound)

	t.Cleanup(func() {
		s.tournaments.AssertExpectations(t)
		s.teams.AssertExpectations(t)
		s.rounds.AssertExpectations(t)
		s.results.AssertExpectations(t)
		s.standings.AssertExpectations(t)
		s.judges.AssertExpectations(t)
	})
	return s
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestCreateTournament(t *testing.T) {
	s := newTestServer(t)
	s.tournaments.On("Create", mock.Anything, mock.MatchedBy(func(in services.CreateTournamentInput) bool {
		return in.Name == "Spring Open" && in.NumRounds == 5
	})).Return(&models.Tournament{ID: 3, Name: "Spring Open", NumRounds: 5}, nil).Once()

	rec := s.do(http.MethodPost, "/tournaments",
		`{"name":"Spring Open","start_date":"2025-03-01T09:00:00Z","end_date":"2025-03-02T18:00:00Z","num_rounds":5,"break_rounds":0,"break_size":0}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got struct {
		Tournament models.Tournament `json:"tournament"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 3, got.Tournament.ID)
}

func TestCreateTournamentBadBody(t *testing.T) {
	s := newTestServer(t)

	cases := map[string]string{
		"empty":        "",
		"malformed":    `{"name":`,
		"unknown key":  `{"title":"x"}`,
		"wrong type":   `{"num_rounds":"five"}`,
		"two payloads": `{"name":"a"}{"name":"b"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/tournaments", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode(t, rec), "error")
		})
	}
}

func TestCreateTournamentValidationError(t *testing.T) {
	s := newTestServer(t)
	verr := &services.ValidationError{Fields: map[string]string{"name": "must be at least 3"}}
	s.tournaments.On("Create", mock.Anything, mock.Anything).Return(nil, verr).Once()

	rec := s.do(http.MethodPost, "/tournaments", `{"name":"ab"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var got struct {
		Error map[string]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "must be at least 3", got.Error["name"])
}

func TestGetTournamentBadID(t *testing.T) {
	s := newTestServer(t)

	for _, id := range []string{"abc", "0", "-4"} {
		rec := s.do(http.MethodGet, "/tournaments/"+id, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
	}
}

func TestGetTournamentNotFound(t *testing.T) {
	s := newTestServer(t)
	s.tournaments.On("Get", mock.Anything, 8).Return(nil, services.ErrTournamentNotFound).Once()

	rec := s.do(http.MethodGet, "/tournaments/8", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadiness(t *testing.T) {
	s := newTestServer(t)
	s.tournaments.On("ValidateTeamCount", mock.Anything, 1).Return(nil).Once()
	s.tournaments.On("ValidateTeamCount", mock.Anything, 2).
		Return(fmt.Errorf("%w: tournament must have at least 4 teams, got 3", services.ErrNotEnoughTeams)).Once()

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/tournaments/1/readiness", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, s.do(http.MethodGet, "/tournaments/2/readiness", "").Code)
}

func TestFinalizeNotFinalizable(t *testing.T) {
	s := newTestServer(t)
	s.tournaments.On("Finalize", mock.Anything, 1).
		Return(nil, fmt.Errorf("%w: only 2 of 5 preliminary rounds are completed", services.ErrTournamentNotFinalizable)).Once()

	rec := s.do(http.MethodPost, "/tournaments/1/finalize", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "only 2 of 5")
}

func TestRegisterAndListTeams(t *testing.T) {
	s := newTestServer(t)
	s.teams.On("Register", mock.Anything, 1, mock.MatchedBy(func(in services.RegisterTeamInput) bool {
		return in.Name == "Riverside A" && in.Members[0].Name == "Ada" && in.Members[1].Name == "Grace"
	})).Return(&models.Team{ID: 4, TournamentID: 1, Name: "Riverside A"}, nil).Once()
	s.teams.On("List", mock.Anything, 1).Return([]*models.Team{{ID: 4, Name: "Riverside A"}}, nil).Once()

	rec := s.do(http.MethodPost, "/tournaments/1/teams",
		`{"name":"Riverside A","members":[{"name":"Ada"},{"name":"Grace"}]}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/tournaments/1/teams", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Teams []models.Team `json:"teams"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Teams, 1)
	assert.Equal(t, "Riverside A", got.Teams[0].Name)
}

func TestRegisterTeamConflict(t *testing.T) {
	s := newTestServer(t)
	s.teams.On("Register", mock.Anything, 1, mock.Anything).Return(nil, services.ErrTeamNameConflict).Once()

	rec := s.do(http.MethodPost, "/tournaments/1/teams", `{"name":"Riverside A","members":[{"name":"Ada"},{"name":"Grace"}]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGenerateRound(t *testing.T) {
	s := newTestServer(t)
	teams := []*models.Team{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}}
	plan := &brackets.Plan{Round: 1, Strategy: "Random", Excluded: teams[4:]}
	debate := &models.Debate{ID: 10, TournamentID: 1, Round: 1}
	for i := 0; i < 4; i++ {
		debate.Slots[i] = models.DebateSlot{TeamID: teams[i].ID, Role: models.Roles[i]}
	}
	isBreak := false
	s.rounds.On("GenerateRound", mock.Anything, 1, services.GenerateRoundInput{Round: 1, IsBreak: &isBreak}).
		Return(&services.RoundResult{Plan: plan, Debates: []*models.Debate{debate}}, nil).Once()

	rec := s.do(http.MethodPost, "/tournaments/1/rounds", `{"round":1,"is_break":false}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got struct {
		Strategy string          `json:"strategy"`
		Debates  []models.Debate `json:"debates"`
		Excluded []models.Team   `json:"excluded"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Random", got.Strategy)
	require.Len(t, got.Debates, 1)
	assert.Equal(t, models.RoleOG, got.Debates[0].Slots[0].Role)
	require.Len(t, got.Excluded, 1)
	assert.Equal(t, 5, got.Excluded[0].ID)
}

func TestGenerateRoundErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"already exists", services.ErrRoundAlreadyExists, http.StatusConflict},
		{"previous incomplete", services.ErrPreviousRoundIncomplete, http.StatusConflict},
		{"insufficient teams", &brackets.InsufficientTeamsError{Available: 3}, http.StatusUnprocessableEntity},
		{"incomplete results", fmt.Errorf("aggregate: %w", &scoring.IncompleteResultSetError{DebateID: 4, Scored: 2}), http.StatusUnprocessableEntity},
		{"invalid break", &standings.InvalidBreakCountError{BreakCount: 6, Teams: 20}, http.StatusUnprocessableEntity},
		{"unexpected", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t)
			s.rounds.On("GenerateRound", mock.Anything, 1, mock.Anything).Return(nil, tc.err).Once()

			rec := s.do(http.MethodPost, "/tournaments/1/rounds", `{"round":2}`)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestListDebatesRoundFilter(t *testing.T) {
	s := newTestServer(t)
	round := 2
	s.rounds.On("ListDebates", mock.Anything, 1, &round).Return([]*models.Debate{{ID: 1, Round: 2}}, nil).Once()
	s.rounds.On("ListDebates", mock.Anything, 1, (*int)(nil)).Return([]*models.Debate{}, nil).Once()

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/tournaments/1/debates?round=2", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/tournaments/1/debates", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/tournaments/1/debates?round=x", "").Code)
}

func TestSubmitResults(t *testing.T) {
	s := newTestServer(t)
	s.results.On("SubmitResults", mock.Anything, 5, mock.MatchedBy(func(in services.SubmitResultsInput) bool {
		return len(in.Results) == 4 && in.Results[0].TeamID == 10 && in.Results[0].Member1Points == 75.5
	})).Return(&models.Debate{ID: 5}, nil).Once()

	body := `{"results":[
		{"team_id":10,"rank":2,"member1_points":75.5,"member2_points":76},
		{"team_id":20,"rank":1,"member1_points":80,"member2_points":79},
		{"team_id":30,"rank":4,"member1_points":70,"member2_points":71},
		{"team_id":40,"rank":3,"member1_points":73,"member2_points":72}]}`
	rec := s.do(http.MethodPost, "/debates/5/results", body)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitResultsErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"debate missing", services.ErrDebateNotFound, http.StatusNotFound},
		{"team not seated", services.ErrTeamNotInDebate, http.StatusBadRequest},
		{"duplicate rank", &scoring.DuplicateRankError{Rank: 1}, http.StatusUnprocessableEntity},
		{"invalid rank", &scoring.InvalidRankError{Rank: 0}, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t)
			s.results.On("SubmitResults", mock.Anything, 5, mock.Anything).Return(nil, tc.err).Once()

			rec := s.do(http.MethodPost, "/debates/5/results", `{"results":[]}`)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestStandingsEndpoints(t *testing.T) {
	s := newTestServer(t)
	list := []models.Standing{{TeamID: 2, Position: 1, TeamPoints: 6}, {TeamID: 1, Position: 2, TeamPoints: 3}}
	s.standings.On("Standings", mock.Anything, 1).Return(list, nil).Once()
	s.standings.On("SelectBreak", mock.Anything, 1, 4).Return(list, nil).Once()
	s.standings.On("SelectBreak", mock.Anything, 1, 0).Return(list, nil).Once()
	s.standings.On("RoleBalance", mock.Anything, 1).Return([]models.TeamRoleBalance{
		{TeamID: 1, Counts: models.RoleCounts{OG: 1}},
	}, nil).Once()

	rec := s.do(http.MethodGet, "/tournaments/1/standings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Standings []models.Standing `json:"standings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, list, got.Standings)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/tournaments/1/break?size=4", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/tournaments/1/break", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/tournaments/1/break?size=-4", "").Code)

	rec = s.do(http.MethodGet, "/tournaments/1/roles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"og": 1`)
}

func TestRegisterAndListAdjudicators(t *testing.T) {
	s := newTestServer(t)
	s.judges.On("Register", mock.Anything, 1, mock.MatchedBy(func(in services.RegisterAdjudicatorInput) bool {
		return in.Name == "Jo Chair" && in.Level == models.LevelExpert
	})).Return(&models.Adjudicator{ID: 4, Name: "Jo Chair", Level: models.LevelExpert}, nil).Once()
	s.judges.On("List", mock.Anything, 1).Return([]*models.Adjudicator{{ID: 4, Name: "Jo Chair"}}, nil).Once()
	s.judges.On("Register", mock.Anything, 1, mock.Anything).Return(nil, services.ErrAdjudicatorNameConflict).Once()

	rec := s.do(http.MethodPost, "/tournaments/1/adjudicators", `{"name":"Jo Chair","level":"expert"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, decode(t, rec), "adjudicator")

	rec = s.do(http.MethodGet, "/tournaments/1/adjudicators", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Jo Chair")

	rec = s.do(http.MethodPost, "/tournaments/1/adjudicators", `{"name":"Jo Chair","level":"expert"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAllocations(t *testing.T) {
	s := newTestServer(t)
	suggested := &services.RoundAllocations{Round: 2, Allocations: []models.Allocation{
		{DebateID: 10, Adjudicators: []*models.Adjudicator{{ID: 1}}},
	}}
	s.judges.On("Allocations", mock.Anything, 1, 2).Return(suggested, nil).Once()
	s.judges.On("AllocateRound", mock.Anything, 1, 2).Return(&services.RoundAllocations{Round: 2, Saved: true}, nil).Once()
	s.judges.On("Allocations", mock.Anything, 1, 9).Return(nil, fmt.Errorf("%w: round 9", services.ErrRoundNotFound)).Once()

	rec := s.do(http.MethodGet, "/tournaments/1/rounds/2/allocations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Allocations services.RoundAllocations `json:"allocations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.Allocations.Saved)
	assert.Equal(t, 10, got.Allocations.Allocations[0].DebateID)

	rec = s.do(http.MethodPost, "/tournaments/1/rounds/2/allocations", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"saved": true`)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/tournaments/1/rounds/9/allocations", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/tournaments/1/rounds/0/allocations", "").Code)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthz(t *testing.T) {
	ok := NewHealthHandler(pingerFunc(func(context.Context) error { return nil }))
	down := NewHealthHandler(pingerFunc(func(context.Context) error { return errors.New("no route") }))

	rec := httptest.NewRecorder()
	ok.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	down.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServerErrorIsLoggedWithRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	standingsService := new(MockStandingsService)
	standingsService.On("Standings", mock.Anything, 1).Return(nil, errors.New("connection reset")).Once()
	t.Cleanup(func() { standingsService.AssertExpectations(t) })

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestLogger(logger))
	router.Get("/tournaments/{tournamentID}/standings", NewStandingsHandler(standingsService).GetStandings)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tournaments/1/standings", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	dec := json.NewDecoder(&buf)
	var line map[string]interface{}
	require.NoError(t, dec.Decode(&line))
	assert.Equal(t, "internal server error", line["msg"])
	assert.Equal(t, "connection reset", line["error"])
	assert.NotEmpty(t, line["request_id"])
}
