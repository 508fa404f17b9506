package handlers

import (
	"net/http"

	"github.com/Dosada05/bp-tabulator/services"
)

type RoundHandler struct {
	roundService  services.RoundService
	resultService services.ResultService
}

func NewRoundHandler(rs services.RoundService, res services.ResultService) *RoundHandler {
	return &RoundHandler{
		roundService:  rs,
		resultService: res,
	}
}

// GenerateRound обрабатывает POST /tournaments/{tournamentID}/rounds
func (h *RoundHandler) GenerateRound(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GenerateRoundInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.roundService.GenerateRound(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"round":    result.Plan.Round,
		"is_break": result.Plan.IsBreak,
		"strategy": result.Plan.Strategy,
		"debates":  result.Debates,
		"excluded": result.Plan.Excluded,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListDebates обрабатывает GET /tournaments/{tournamentID}/debates?round=N
func (h *RoundHandler) ListDebates(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	round, err := queryInt(r, "round")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	debates, err := h.roundService.ListDebates(r.Context(), tournamentID, round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"debates": debates}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitResults обрабатывает POST /debates/{debateID}/results
func (h *RoundHandler) SubmitResults(w http.ResponseWriter, r *http.Request) {
	debateID, err := getIDFromURL(r, "debateID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SubmitResultsInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	debate, err := h.resultService.SubmitResults(r.Context(), debateID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"debate": debate}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
