package model

// Role is the closed set of user roles. Authorization code switches over
// this type exhaustively; an unknown value must always deny.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleTeamLeader Role = "team_leader"
	RoleEmployee   Role = "employee"
	RoleGuest      Role = "guest"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleTeamLeader, RoleEmployee, RoleGuest:
		return true
	}
	return false
}

// HasTeam reports whether the role carries a team affiliation.
func (r Role) HasTeam() bool {
	return r == RoleTeamLeader || r == RoleEmployee
}
