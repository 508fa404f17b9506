// Package standings builds the tournament ranking table from debate results
// and selects the teams that break.
package standings

import (
	"github.com/Dosada05/bp-tabulator/models"
	"github.com/Dosada05/bp-tabulator/scoring"
)

type tally struct {
	standing models.Standing
	rankSum  int
}

// Aggregate folds results into one sorted Standing per team. Every team in
// teams gets a row, zero-valued if it has no completed debate; the order of
// teams is the tie order for teams equal on every ranking key. Results for
// teams not in the list are appended after them in order of appearance.
//
// Every debate referenced by results must carry all four results, otherwise
// nothing is aggregated and an *scoring.IncompleteResultSetError is returned.
func Aggregate(teams []*models.Team, results []models.Result) ([]models.Standing, error) {
	if err := checkComplete(results); err != nil {
		return nil, err
	}

	order := make([]int, 0, len(teams))
	byTeam := make(map[int]*tally, len(teams))
	for _, t := range teams {
		if t == nil {
			continue
		}
		if _, dup := byTeam[t.ID]; dup {
			continue
		}
		byTeam[t.ID] = &tally{standing: models.Standing{TeamID: t.ID, TeamName: t.Name}}
		order = append(order, t.ID)
	}

	for _, r := range results {
		tl, ok := byTeam[r.TeamID]
		if !ok {
			tl = &tally{standing: models.Standing{TeamID: r.TeamID}}
			byTeam[r.TeamID] = tl
			order = append(order, r.TeamID)
		}
		s := &tl.standing
		s.TeamPoints += r.TeamPoints
		s.SpeakerPoints += r.ScaledPoints
		s.DebatesCompleted++
		switch r.Rank {
		case 1:
			s.FirstPlaces++
		case 2:
			s.SecondPlaces++
		}
		tl.rankSum += r.Rank
	}

	list := make([]models.Standing, 0, len(order))
	for _, id := range order {
		tl := byTeam[id]
		if tl.standing.DebatesCompleted > 0 {
			avg := float64(tl.rankSum) / float64(tl.standing.DebatesCompleted)
			tl.standing.AverageRank = &avg
		}
		list = append(list, tl.standing)
	}

	Sort(list)
	return list, nil
}

func checkComplete(results []models.Result) error {
	perDebate := make(map[int]int)
	debateOrder := make([]int, 0)
	for _, r := range results {
		if _, ok := perDebate[r.DebateID]; !ok {
			debateOrder = append(debateOrder, r.DebateID)
		}
		perDebate[r.DebateID]++
	}
	for _, id := range debateOrder {
		if n := perDebate[id]; n != scoring.TeamsPerDebate {
			return &scoring.IncompleteResultSetError{DebateID: id, Scored: n}
		}
	}
	return nil
}
