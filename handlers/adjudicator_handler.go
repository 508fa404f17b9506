package handlers

import (
	"net/http"

	"github.com/Dosada05/bp-tabulator/services"
)

type AdjudicatorHandler struct {
	adjudicatorService services.AdjudicatorService
}

func NewAdjudicatorHandler(as services.AdjudicatorService) *AdjudicatorHandler {
	return &AdjudicatorHandler{adjudicatorService: as}
}

// RegisterAdjudicator обрабатывает POST /tournaments/{tournamentID}/adjudicators
func (h *AdjudicatorHandler) RegisterAdjudicator(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RegisterAdjudicatorInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	adj, err := h.adjudicatorService.Register(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"adjudicator": adj}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AdjudicatorHandler) ListAdjudicators(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	adjudicators, err := h.adjudicatorService.List(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"adjudicators": adjudicators}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetAllocations обрабатывает GET /tournaments/{tournamentID}/rounds/{round}/allocations
func (h *AdjudicatorHandler) GetAllocations(w http.ResponseWriter, r *http.Request) {
	tournamentID, round, ok := roundFromURL(w, r)
	if !ok {
		return
	}

	allocations, err := h.adjudicatorService.Allocations(r.Context(), tournamentID, round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"allocations": allocations}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AllocateRound обрабатывает POST /tournaments/{tournamentID}/rounds/{round}/allocations
func (h *AdjudicatorHandler) AllocateRound(w http.ResponseWriter, r *http.Request) {
	tournamentID, round, ok := roundFromURL(w, r)
	if !ok {
		return
	}

	allocations, err := h.adjudicatorService.AllocateRound(r.Context(), tournamentID, round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"allocations": allocations}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func roundFromURL(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	round, err := getIDFromURL(r, "round")
	if err != nil {
		badRequestResponse(w, r, err)
		return 0, 0, false
	}
	return tournamentID, round, true
}
