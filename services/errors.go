package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrDebateNotFound      = errors.New("debate not found")
	ErrAdjudicatorNotFound = errors.New("adjudicator not found")
	ErrRoundNotFound       = errors.New("round has not been generated")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed         = errors.New("validation failed")
	ErrTeamNotInDebate          = errors.New("team is not seated in this debate")
	ErrPreviousRoundIncomplete  = errors.New("previous round is not completed")
	ErrNotEnoughTeams           = errors.New("not enough teams registered")
	ErrTournamentCompleted      = errors.New("tournament is already completed")
	ErrTournamentNotFinalizable = errors.New("tournament cannot be finalized")

	// Ошибки конфликтов
	ErrRoundAlreadyExists      = errors.New("round has already been generated")
	ErrTournamentNameConflict  = errors.New("tournament name already exists")
	ErrTeamNameConflict        = errors.New("team name already registered in this tournament")
	ErrAdjudicatorNameConflict = errors.New("adjudicator name already registered in this tournament")
)
