package brackets

import (
	"github.com/Dosada05/bp-tabulator/models"
)

const TeamsPerDebate = 4

type GeneratePairingsParams struct {
	Round     int
	IsBreak   bool
	Teams     []*models.Team
	Standings []models.Standing
}

// PairingGenerator orders the field for a round. Every generator returns the
// groups of four that will debate together plus the teams left over when
// the field is not a multiple of four.
type PairingGenerator interface {
	GenerateGroups(params GeneratePairingsParams) (groups [][]*models.Team, excluded []*models.Team, err error)

	GetName() string
}

// sliceIntoGroups cuts ordered into consecutive groups of four. The tail
// beyond the last full group is returned as excluded.
func sliceIntoGroups(ordered []*models.Team) ([][]*models.Team, []*models.Team, error) {
	if len(ordered) < TeamsPerDebate {
		return nil, nil, &InsufficientTeamsError{Available: len(ordered)}
	}
	usable := len(ordered) / TeamsPerDebate * TeamsPerDebate

	groups := make([][]*models.Team, 0, usable/TeamsPerDebate)
	for i := 0; i < usable; i += TeamsPerDebate {
		groups = append(groups, ordered[i:i+TeamsPerDebate:i+TeamsPerDebate])
	}

	var excluded []*models.Team
	if usable < len(ordered) {
		excluded = append(excluded, ordered[usable:]...)
	}
	return groups, excluded, nil
}
