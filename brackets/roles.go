package brackets

import (
	"sort"

	"github.com/Dosada05/bp-tabulator/models"
)

// RoleLedger is the per-team bench history of one tournament. It is not safe
// for concurrent writers; one pairing pass runs at a time per tournament.
type RoleLedger struct {
	counts map[int]models.RoleCounts
}

// NewRoleLedger seeds a ledger from stored counters. The map is copied.
func NewRoleLedger(history map[int]models.RoleCounts) *RoleLedger {
	counts := make(map[int]models.RoleCounts, len(history))
	for id, c := range history {
		counts[id] = c
	}
	return &RoleLedger{counts: counts}
}

// RecordAssignment bumps the counter of role for the team.
func (l *RoleLedger) RecordAssignment(teamID int, role models.Role) {
	l.counts[teamID] = l.counts[teamID].Inc(role)
}

func (l *RoleLedger) Counts(teamID int) models.RoleCounts {
	return l.counts[teamID]
}

// Snapshot returns a copy of all counters.
func (l *RoleLedger) Snapshot() map[int]models.RoleCounts {
	out := make(map[int]models.RoleCounts, len(l.counts))
	for id, c := range l.counts {
		out[id] = c
	}
	return out
}

func preferenceScore(c models.RoleCounts, r models.Role) int {
	return 2*c.Get(r) - r.Value()
}

// PreferenceOrder returns the four roles, most wanted first, by ascending
// 2*timesAssigned(role) - value(role). Equal scores fall back to OG, OO, CG, CO.
func (l *RoleLedger) PreferenceOrder(teamID int) []models.Role {
	c := l.counts[teamID]
	order := make([]models.Role, len(models.Roles))
	copy(order, models.Roles[:])
	sort.SliceStable(order, func(i, j int) bool {
		return preferenceScore(c, order[i]) < preferenceScore(c, order[j])
	})
	return order
}

// Begin opens a batch of assignments that reach the ledger only on Commit.
func (l *RoleLedger) Begin() *RoleBatch {
	return &RoleBatch{ledger: l}
}

type stagedRole struct {
	teamID int
	role   models.Role
}

// RoleBatch collects the assignments of one round so they are applied to the
// ledger all together or not at all.
type RoleBatch struct {
	ledger  *RoleLedger
	pending []stagedRole
	closed  bool
}

func (b *RoleBatch) Stage(teamID int, role models.Role) {
	if b.closed {
		return
	}
	b.pending = append(b.pending, stagedRole{teamID: teamID, role: role})
}

// Len is the number of staged assignments.
func (b *RoleBatch) Len() int {
	return len(b.pending)
}

// Commit applies every staged assignment. Calling it twice is a no-op.
func (b *RoleBatch) Commit() {
	if b.closed {
		return
	}
	for _, s := range b.pending {
		b.ledger.RecordAssignment(s.teamID, s.role)
	}
	b.closed = true
}

// Discard drops the staged assignments.
func (b *RoleBatch) Discard() {
	b.pending = nil
	b.closed = true
}
