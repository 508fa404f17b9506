package brackets

import (
	"sort"

	"github.com/Dosada05/bp-tabulator/models"
)

// PanelSize is the most adjudicators placed on one debate.
const PanelSize = 3

// AllocateAdjudicators builds a panel for each debate, in debate order.
// Judges are taken strongest first and each judge sits on at most one panel
// of the round. A judge who has already seen any team of a room is never
// placed in that room. Rooms that run out of judges get a short or empty
// panel.
func AllocateAdjudicators(debates []*models.Debate, adjudicators []*models.Adjudicator, history []models.JudgedTeam) []models.Allocation {
	pool := make([]*models.Adjudicator, 0, len(adjudicators))
	seen := make(map[int]bool, len(adjudicators))
	for _, a := range adjudicators {
		if a == nil || seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		pool = append(pool, a)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Level.Weight() > pool[j].Level.Weight()
	})

	judged := make(map[int]map[int]bool)
	for _, h := range history {
		if judged[h.AdjudicatorID] == nil {
			judged[h.AdjudicatorID] = make(map[int]bool)
		}
		judged[h.AdjudicatorID][h.TeamID] = true
	}

	used := make(map[int]bool, len(pool))
	out := make([]models.Allocation, 0, len(debates))
	for _, d := range debates {
		if d == nil {
			continue
		}
		panel := make([]*models.Adjudicator, 0, PanelSize)
		for _, a := range pool {
			if len(panel) == PanelSize {
				break
			}
			if used[a.ID] || hasConflict(judged[a.ID], d) {
				continue
			}
			used[a.ID] = true
			panel = append(panel, a)
		}
		out = append(out, models.Allocation{DebateID: d.ID, Adjudicators: panel})
	}
	return out
}

func hasConflict(teams map[int]bool, d *models.Debate) bool {
	for _, s := range d.Slots {
		if teams[s.TeamID] {
			return true
		}
	}
	return false
}
