// Package schema declares column roles and the ordered column registry.
//
// Column selection (what to prefix, what to difference, what to emit) is
// decided by Role, never by inspecting column names.
package schema

// Role classifies a column.
type Role int

const (
	RoleIdentifier Role = iota
	RoleRawResult
	RoleSeasonCumulative
	RolePrior
	RoleRolling
	RoleRest
	RoleMomentum
	RoleHeadToHead
	RoleDiff
	RoleLabel
)

var roleNames = [...]string{ //nolint:gochecknoglobals // enum names
	RoleIdentifier:       "identifier",
	RoleRawResult:        "raw_result",
	RoleSeasonCumulative: "season_cumulative",
	RolePrior:            "prior",
	RoleRolling:          "rolling",
	RoleRest:             "rest",
	RoleMomentum:         "momentum",
	RoleHeadToHead:       "head_to_head",
	RoleDiff:             "diff",
	RoleLabel:            "label",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "unknown"
	}
	return roleNames[r]
}

// TeamFeature reports whether the role is a derived per-team predictor:
// prefixed HOME_/AWAY_ on assembly and differenced.
func (r Role) TeamFeature() bool {
	switch r {
	case RolePrior, RoleRolling, RoleRest, RoleMomentum:
		return true
	default:
		return false
	}
}

// Ingested reports whether the role is a raw input column.
func (r Role) Ingested() bool {
	return r == RoleRawResult || r == RoleSeasonCumulative
}
