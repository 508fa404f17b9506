package brackets

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/Dosada05/bp-tabulator/models"
)

type Assignment struct {
	Team *models.Team `json:"team"`
	Role models.Role  `json:"role"`
}

// PairedDebate is one room of a plan. Slots are indexed by role: OG, OO, CG, CO.
type PairedDebate struct {
	Room  int           `json:"room"`
	Slots [4]Assignment `json:"slots"`
}

// Plan is the outcome of pairing one round. It is not persisted by this
// package; the caller stores it as debates.
type Plan struct {
	Round    int            `json:"round_number"`
	IsBreak  bool           `json:"is_break"`
	Strategy string         `json:"strategy"`
	Debates  []PairedDebate `json:"debates"`
	Excluded []*models.Team `json:"excluded,omitempty"`
}

// Assignments lists every team/role pair of the plan in room order.
func (p *Plan) Assignments() []Assignment {
	out := make([]Assignment, 0, len(p.Debates)*TeamsPerDebate)
	for _, d := range p.Debates {
		out = append(out, d.Slots[:]...)
	}
	return out
}

// ToDebates converts the plan into unsaved debate records.
func (p *Plan) ToDebates(tournamentID int) []*models.Debate {
	debates := make([]*models.Debate, 0, len(p.Debates))
	for _, pd := range p.Debates {
		d := &models.Debate{
			TournamentID: tournamentID,
			Round:        p.Round,
			IsBreak:      p.IsBreak,
		}
		for i, a := range pd.Slots {
			d.Slots[i] = models.DebateSlot{TeamID: a.Team.ID, Role: a.Role, Team: a.Team}
		}
		debates = append(debates, d)
	}
	return debates
}

// NewGenerator picks the strategy for a round: random for round one,
// break-bracket seeding for knockout rounds, power pairing otherwise.
func NewGenerator(round int, isBreak bool, rng *rand.Rand) PairingGenerator {
	switch {
	case round == 1:
		return NewRandomGenerator(rng)
	case isBreak:
		return NewBreakBracketGenerator()
	default:
		return NewPowerPairingGenerator()
	}
}

// Pairer generates rounds against a role ledger.
type Pairer struct {
	ledger *RoleLedger
	rng    *rand.Rand
}

// NewPairer returns a Pairer. A nil ledger starts with empty history; a nil
// rng is seeded randomly.
func NewPairer(ledger *RoleLedger, rng *rand.Rand) *Pairer {
	if ledger == nil {
		ledger = NewRoleLedger(nil)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Pairer{ledger: ledger, rng: rng}
}

func (p *Pairer) Ledger() *RoleLedger {
	return p.ledger
}

// GeneratePairings groups teams into rooms of four and seats them. Only
// floor(n/4)*4 teams are paired; the rest are listed in Plan.Excluded.
// The ledger is updated with every seat of the round once all rooms are
// built, and left untouched on error.
func (p *Pairer) GeneratePairings(teams []*models.Team, table []models.Standing, round int, isBreak bool) (*Plan, error) {
	if round < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRound, round)
	}

	gen := NewGenerator(round, isBreak, p.rng)
	groups, excluded, err := gen.GenerateGroups(GeneratePairingsParams{
		Round:     round,
		IsBreak:   isBreak,
		Teams:     uniqueTeams(teams),
		Standings: table,
	})
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Round:    round,
		IsBreak:  isBreak,
		Strategy: gen.GetName(),
		Debates:  make([]PairedDebate, 0, len(groups)),
		Excluded: excluded,
	}

	batch := p.ledger.Begin()
	for i, group := range groups {
		slots := assignRoles(group, p.ledger)
		for _, a := range slots {
			batch.Stage(a.Team.ID, a.Role)
		}
		plan.Debates = append(plan.Debates, PairedDebate{Room: i + 1, Slots: slots})
	}
	batch.Commit()

	return plan, nil
}

// assignRoles seats a room. The team with the lowest weighted bench history
// chooses first and takes its most preferred free role.
func assignRoles(group []*models.Team, ledger *RoleLedger) [4]Assignment {
	queue := make([]*models.Team, len(group))
	copy(queue, group)
	sort.SliceStable(queue, func(i, j int) bool {
		return ledger.Counts(queue[i].ID).WeightedScore() < ledger.Counts(queue[j].ID).WeightedScore()
	})

	var slots [4]Assignment
	var taken [4]bool
	for _, team := range queue {
		chosen := -1
		for _, role := range ledger.PreferenceOrder(team.ID) {
			if idx := role.Index(); !taken[idx] {
				chosen = idx
				break
			}
		}
		if chosen < 0 {
			for idx := range taken {
				if !taken[idx] {
					chosen = idx
					break
				}
			}
		}
		taken[chosen] = true
		slots[chosen] = Assignment{Team: team, Role: models.Roles[chosen]}
	}
	return slots
}

func uniqueTeams(teams []*models.Team) []*models.Team {
	seen := make(map[int]bool, len(teams))
	out := make([]*models.Team, 0, len(teams))
	for _, t := range teams {
		if t == nil || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}
