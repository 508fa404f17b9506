package brackets

import "github.com/Dosada05/bp-tabulator/models"

// BreakBracketGenerator pairs knockout rounds. The qualifying teams are
// seeded by standings: seeds 1-4 form the first room, 5-8 the second, and so on.
type BreakBracketGenerator struct{}

func NewBreakBracketGenerator() PairingGenerator {
	return &BreakBracketGenerator{}
}

func (g *BreakBracketGenerator) GetName() string {
	return "BreakBracket"
}

func (g *BreakBracketGenerator) GenerateGroups(params GeneratePairingsParams) ([][]*models.Team, []*models.Team, error) {
	return sliceIntoGroups(rankTeams(params.Teams, params.Standings))
}
