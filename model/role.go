// Package model provides role-based model routing for the generation
// agents. Instead of hardcoding model names, agents are assigned roles
// (input, spatial, critic, ...) and the registry resolves each role to
// a model with temperature, token cap, and a fallback chain.
package model

// Role identifies a generation agent for routing purposes.
type Role string

const (
	// RoleInput parses the project configuration into a normalized spec.
	RoleInput Role = "input"

	// RoleSpatial generates the initial floor-plan layout.
	RoleSpatial Role = "spatial"

	// RoleCritic assesses a candidate plan qualitatively.
	RoleCritic Role = "critic"

	// RoleRefinement revises a plan from violations and critiques.
	RoleRefinement Role = "refinement"

	// RoleCost estimates materials and construction cost.
	RoleCost Role = "cost"

	// RoleFurniture places furniture in the final plan.
	RoleFurniture Role = "furniture"
)

// Roles lists all known roles in routing-table order.
var Roles = []Role{RoleInput, RoleSpatial, RoleCritic, RoleRefinement, RoleCost, RoleFurniture}

// IsValid checks if a role string is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleInput, RoleSpatial, RoleCritic, RoleRefinement, RoleCost, RoleFurniture:
		return true
	}
	return false
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Tier is the model weight class a role routes to. Thinker roles get
// the heavy model, parser and utility roles the fast one.
type Tier string

const (
	TierHeavy Tier = "heavy"
	TierFast  Tier = "fast"
)

// TierForRole returns the routing tier of a role.
func TierForRole(r Role) Tier {
	switch r {
	case RoleSpatial, RoleCritic, RoleRefinement:
		return TierHeavy
	default:
		return TierFast
	}
}
