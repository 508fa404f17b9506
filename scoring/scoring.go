// Package scoring turns debate ranks and judge speaker scores into BP team
// points and debate-normalised speaker points.
package scoring

const (
	TeamsPerDebate = 4

	scaledMax = 100.0
	scaledMid = 50.0
)

var pointsByRank = [TeamsPerDebate]int{3, 2, 1, 0}

// TeamPointsForRank maps rank 1..4 to 3/2/1/0 team points.
func TeamPointsForRank(rank int) (int, error) {
	if rank < 1 || rank > TeamsPerDebate {
		return 0, &InvalidRankError{Rank: rank}
	}
	return pointsByRank[rank-1], nil
}

// ScaleSpeakerPoints rescales raw linearly so that the lowest score in the
// debate becomes 0 and the highest 100. When every score is equal all teams
// get 50. Values are not range checked.
func ScaleSpeakerPoints(raw float64, all []float64) float64 {
	if len(all) == 0 {
		return scaledMid
	}
	lo, hi := all[0], all[0]
	for _, p := range all[1:] {
		if p < lo {
			lo = p
		}
		if p > hi {
			hi = p
		}
	}
	if hi == lo {
		return scaledMid
	}
	return (raw - lo) / (hi - lo) * scaledMax
}

// Entry is the unscored submission for one team in a debate.
type Entry struct {
	TeamID        int
	Rank          int
	Member1Points float64
	Member2Points float64
}

func (e Entry) raw() float64 {
	return e.Member1Points + e.Member2Points
}

// Scored is an Entry with derived team and scaled points.
type Scored struct {
	Entry
	TeamPoints   int
	ScaledPoints float64
}

// ScoreDebate validates a complete submission for one debate and derives team
// points and scaled speaker points for every team. Results are returned in the
// order of entries.
func ScoreDebate(entries []Entry) ([]Scored, error) {
	if len(entries) != TeamsPerDebate {
		return nil, &IncompleteResultSetError{Scored: len(entries)}
	}

	var seen [TeamsPerDebate]bool
	raws := make([]float64, len(entries))
	for i, e := range entries {
		if e.Rank < 1 || e.Rank > TeamsPerDebate {
			return nil, &InvalidRankError{Rank: e.Rank}
		}
		if seen[e.Rank-1] {
			return nil, &DuplicateRankError{Rank: e.Rank}
		}
		seen[e.Rank-1] = true
		raws[i] = e.raw()
	}

	scored := make([]Scored, len(entries))
	for i, e := range entries {
		tp, err := TeamPointsForRank(e.Rank)
		if err != nil {
			return nil, err
		}
		scored[i] = Scored{
			Entry:        e,
			TeamPoints:   tp,
			ScaledPoints: ScaleSpeakerPoints(raws[i], raws),
		}
	}
	return scored, nil
}
