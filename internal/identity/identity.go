// Package identity holds the resolved caller of an operation: who they
// are, what role they act under, and which team or project scopes them.
package identity

import (
	"github.com/google/uuid"

	"planboard/internal/model"
)

// Caller is the identity assertion every operation is authorized against.
// TeamID is set for team leaders and employees, ProjectID for guests.
type Caller struct {
	ID        uuid.UUID
	Role      model.Role
	TeamID    *uuid.UUID
	ProjectID *uuid.UUID
}

// FromUser builds the caller view of a stored user.
func FromUser(u *model.User) Caller {
	return Caller{
		ID:        u.ID,
		Role:      u.Role,
		TeamID:    u.TeamID,
		ProjectID: u.ProjectID,
	}
}

// SameTeam reports whether the caller belongs to the given team.
func (c Caller) SameTeam(teamID uuid.UUID) bool {
	return c.TeamID != nil && *c.TeamID == teamID
}

// ScopedTo reports whether the caller is a guest scoped to the project.
func (c Caller) ScopedTo(projectID uuid.UUID) bool {
	return c.ProjectID != nil && *c.ProjectID == projectID
}
