package standings

import "github.com/Dosada05/bp-tabulator/models"

// SelectBreakingTeams returns the top breakCount teams by the standings
// ordering. breakCount must be a positive multiple of four no larger than the
// number of standings. The input slice is left untouched.
func SelectBreakingTeams(list []models.Standing, breakCount int) ([]models.Standing, error) {
	if breakCount <= 0 || breakCount%4 != 0 || breakCount > len(list) {
		return nil, &InvalidBreakCountError{BreakCount: breakCount, Teams: len(list)}
	}
	return Sorted(list)[:breakCount], nil
}

// DefaultBreakSize is a quarter of the field rounded down to whole rooms.
func DefaultBreakSize(teamCount int) int {
	return teamCount / 4 / 4 * 4
}
