package standings

import (
	"sort"

	"github.com/Dosada05/bp-tabulator/models"
)

// Less reports whether a ranks strictly ahead of b. Keys, applied in turn:
// team points desc, speaker points desc, first places desc, second places
// desc, average rank asc. A nil average rank sorts after any value.
func Less(a, b models.Standing) bool {
	if a.TeamPoints != b.TeamPoints {
		return a.TeamPoints > b.TeamPoints
	}
	if a.SpeakerPoints != b.SpeakerPoints {
		return a.SpeakerPoints > b.SpeakerPoints
	}
	if a.FirstPlaces != b.FirstPlaces {
		return a.FirstPlaces > b.FirstPlaces
	}
	if a.SecondPlaces != b.SecondPlaces {
		return a.SecondPlaces > b.SecondPlaces
	}
	if a.AverageRank == nil || b.AverageRank == nil {
		return a.AverageRank != nil
	}
	return *a.AverageRank < *b.AverageRank
}

// Sort orders list in place with Less and renumbers positions from 1. Teams
// equal on every key keep their relative input order.
func Sort(list []models.Standing) {
	sort.SliceStable(list, func(i, j int) bool {
		return Less(list[i], list[j])
	})
	for i := range list {
		list[i].Position = i + 1
	}
}

// Sorted returns a sorted copy of list.
func Sorted(list []models.Standing) []models.Standing {
	out := make([]models.Standing, len(list))
	copy(out, list)
	Sort(out)
	return out
}
