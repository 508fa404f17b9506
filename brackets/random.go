package brackets

import (
	"math/rand/v2"

	"github.com/Dosada05/bp-tabulator/models"
)

// RandomGenerator pairs the opening round: the field is shuffled uniformly
// and cut into rooms in shuffle order.
type RandomGenerator struct {
	rng *rand.Rand
}

func NewRandomGenerator(rng *rand.Rand) PairingGenerator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &RandomGenerator{rng: rng}
}

func (g *RandomGenerator) GetName() string {
	return "Random"
}

func (g *RandomGenerator) GenerateGroups(params GeneratePairingsParams) ([][]*models.Team, []*models.Team, error) {
	shuffled := make([]*models.Team, len(params.Teams))
	copy(shuffled, params.Teams)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return sliceIntoGroups(shuffled)
}
