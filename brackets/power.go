package brackets

import (
	"sort"

	"github.com/Dosada05/bp-tabulator/models"
	"github.com/Dosada05/bp-tabulator/standings"
)

// PowerPairingGenerator pairs later preliminary rounds: teams are ranked by
// the standings ordering and rooms are filled from the top, so teams on
// similar records meet.
type PowerPairingGenerator struct{}

func NewPowerPairingGenerator() PairingGenerator {
	return &PowerPairingGenerator{}
}

func (g *PowerPairingGenerator) GetName() string {
	return "PowerPairing"
}

func (g *PowerPairingGenerator) GenerateGroups(params GeneratePairingsParams) ([][]*models.Team, []*models.Team, error) {
	return sliceIntoGroups(rankTeams(params.Teams, params.Standings))
}

type rankedTeam struct {
	team     *models.Team
	standing models.Standing
}

// rankTeams sorts teams by their standing. A team missing from table ranks
// as if it had no completed debate. Ties keep the order of teams.
func rankTeams(teams []*models.Team, table []models.Standing) []*models.Team {
	byID := make(map[int]models.Standing, len(table))
	for _, s := range table {
		byID[s.TeamID] = s
	}

	entries := make([]rankedTeam, len(teams))
	for i, t := range teams {
		s, ok := byID[t.ID]
		if !ok {
			s = models.Standing{TeamID: t.ID, TeamName: t.Name}
		}
		entries[i] = rankedTeam{team: t, standing: s}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return standings.Less(entries[i].standing, entries[j].standing)
	})

	ordered := make([]*models.Team, len(entries))
	for i, e := range entries {
		ordered[i] = e.team
	}
	return ordered
}
