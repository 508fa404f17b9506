package handlers

import (
	"net/http"

	"github.com/Dosada05/bp-tabulator/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(ss services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: ss}
}

func (h *StandingsHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	list, err := h.standingsService.Standings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": list}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBreak обрабатывает GET /tournaments/{tournamentID}/break?size=N.
// Без size используется размер брейка турнира.
func (h *StandingsHandler) GetBreak(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	size, err := queryInt(r, "size")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	breakCount := 0
	if size != nil {
		breakCount = *size
	}

	breaking, err := h.standingsService.SelectBreak(r.Context(), tournamentID, breakCount)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"breaking_teams": breaking}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) GetRoleBalance(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	balance, err := h.standingsService.RoleBalance(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"role_balance": balance}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
