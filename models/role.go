package models

import "fmt"

// Role is one of the four British Parliamentary benches.
type Role string

const (
	RoleOG Role = "OG" // Opening Government
	RoleOO Role = "OO" // Opening Opposition
	RoleCG Role = "CG" // Closing Government
	RoleCO Role = "CO" // Closing Opposition
)

// Roles lists the benches in their fixed priority order.
var Roles = [4]Role{RoleOG, RoleOO, RoleCG, RoleCO}

// Value is the intrinsic worth of a bench: OG 3, OO 2, CG 1, CO 0.
func (r Role) Value() int {
	switch r {
	case RoleOG:
		return 3
	case RoleOO:
		return 2
	case RoleCG:
		return 1
	default:
		return 0
	}
}

// Index returns the position of the role in Roles, or -1.
func (r Role) Index() int {
	for i, role := range Roles {
		if role == r {
			return i
		}
	}
	return -1
}

func (r Role) Valid() bool {
	return r.Index() >= 0
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// RoleCounts holds how many times a team has sat on each bench.
type RoleCounts struct {
	OG int `json:"og"`
	OO int `json:"oo"`
	CG int `json:"cg"`
	CO int `json:"co"`
}

func (c RoleCounts) Get(r Role) int {
	switch r {
	case RoleOG:
		return c.OG
	case RoleOO:
		return c.OO
	case RoleCG:
		return c.CG
	case RoleCO:
		return c.CO
	}
	return 0
}

// Inc returns a copy with the counter for r incremented.
func (c RoleCounts) Inc(r Role) RoleCounts {
	switch r {
	case RoleOG:
		c.OG++
	case RoleOO:
		c.OO++
	case RoleCG:
		c.CG++
	case RoleCO:
		c.CO++
	}
	return c
}

// Total is the number of debates the team has been assigned to.
func (c RoleCounts) Total() int {
	return c.OG + c.OO + c.CG + c.CO
}

// WeightedScore sums count*value over all benches. Lower means the team has
// historically been given the less rewarding positions.
func (c RoleCounts) WeightedScore() int {
	score := 0
	for _, r := range Roles {
		score += c.Get(r) * r.Value()
	}
	return score
}
