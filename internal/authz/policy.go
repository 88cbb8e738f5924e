// Package authz holds the authorization policy: pure predicates over the
// caller's role and their relationship to the target resource. Predicates
// never touch the store; callers fetch whatever relationship facts a check
// needs and pass them in. Every mutation gate short-circuits before any
// write, and every read path uses the same visibility predicates as a
// filter.
//
// All role switches are exhaustive over model.Role; anything outside the
// closed set denies.
package authz

import (
	"github.com/google/uuid"

	"planboard/internal/apperr"
	"planboard/internal/identity"
	"planboard/internal/model"
)

// ProjectVisibility carries the relationship facts project-visibility
// checks need for employees: the set of projects in which the caller holds
// at least one task assignment.
type ProjectVisibility struct {
	AssignedProjectIDs map[uuid.UUID]bool
}

// CanViewProject reports whether the project is in the caller's read scope.
func CanViewProject(c identity.Caller, p *model.Project, vis ProjectVisibility) bool {
	switch c.Role {
	case model.RoleSuperAdmin:
		return true
	case model.RoleTeamLeader:
		return c.SameTeam(p.TeamID)
	case model.RoleEmployee:
		return vis.AssignedProjectIDs[p.ID]
	case model.RoleGuest:
		return c.ScopedTo(p.ID)
	}
	return false
}

// CanViewTask reports whether a task is visible to the caller. Guests see
// every task of their project; employees only the tasks assigned to them.
func CanViewTask(c identity.Caller, task *model.Task, project *model.Project, isAssignee bool) bool {
	switch c.Role {
	case model.RoleSuperAdmin:
		return true
	case model.RoleTeamLeader:
		return c.SameTeam(project.TeamID)
	case model.RoleEmployee:
		return isAssignee
	case model.RoleGuest:
		return c.ScopedTo(task.ProjectID)
	}
	return false
}

// CanViewFinancials reports whether the caller may read a project's
// financial entries. Only admins and the owning team's leader can.
func CanViewFinancials(c identity.Caller, p *model.Project) bool {
	switch c.Role {
	case model.RoleSuperAdmin:
		return true
	case model.RoleTeamLeader:
		return c.SameTeam(p.TeamID)
	case model.RoleEmployee, model.RoleGuest:
		return false
	}
	return false
}

func CanCreateProject(c identity.Caller) error {
	if c.Role == model.RoleSuperAdmin {
		return nil
	}
	return apperr.Unauthorizedf("role %s cannot create projects", c.Role)
}

func CanDeleteProject(c identity.Caller) error {
	if c.Role == model.RoleSuperAdmin {
		return nil
	}
	return apperr.Unauthorizedf("role %s cannot delete projects", c.Role)
}

func CanCreateTeam(c identity.Caller) error {
	if c.Role == model.RoleSuperAdmin {
		return nil
	}
	return apperr.Unauthorizedf("role %s cannot create teams", c.Role)
}

func CanUpdateTeam(c identity.Caller) error {
	if c.Role == model.RoleSuperAdmin {
		return nil
	}
	return apperr.Unauthorizedf("role %s cannot update teams", c.Role)
}

func CanDeleteTeam(c identity.Caller) error {
	if c.Role == model.RoleSuperAdmin {
		return nil
	}
	return apperr.Unauthorizedf("role %s cannot delete teams", c.Role)
}

// CanManageTeamMembers allows super admins, and a team leader acting on
// their own team.
func CanManageTeamMembers(c identity.Caller, teamID uuid.UUID) error {
	switch c.Role {
	case model.RoleSuperAdmin:
		return nil
	case model.RoleTeamLeader:
		if c.SameTeam(teamID) {
			return nil
		}
		return apperr.Unauthorizedf("team leader can only manage members of their own team")
	case model.RoleEmployee, model.RoleGuest:
	}
	return apperr.Unauthorizedf("role %s cannot manage team members", c.Role)
}

// CanListTeamMembers allows super admins, and leaders or employees
// reading their own team's roster. Guests have no team.
func CanListTeamMembers(c identity.Caller, teamID uuid.UUID) error {
	switch c.Role {
	case model.RoleSuperAdmin:
		return nil
	case model.RoleTeamLeader, model.RoleEmployee:
		if c.SameTeam(teamID) {
			return nil
		}
		return apperr.Unauthorizedf("members of another team are not visible")
	case model.RoleGuest:
	}
	return apperr.Unauthorizedf("role %s cannot list team members", c.Role)
}

func CanCreateUser(c identity.Caller) error {
	if c.Role == model.RoleSuperAdmin {
		return nil
	}
	return apperr.Unauthorizedf("role %s cannot create users", c.Role)
}

// CanUpdateUser allows super admins, and any user editing their own record.
func CanUpdateUser(c identity.Caller, target *model.User) error {
	if c.Role == model.RoleSuperAdmin || c.ID == target.ID {
		return nil
	}
	return apperr.Unauthorizedf("role %s cannot update other users", c.Role)
}

func CanDeleteUser(c identity.Caller) error {
	if c.Role == model.RoleSuperAdmin {
		return nil
	}
	return apperr.Unauthorizedf("role %s cannot delete users", c.Role)
}

// CanCreateTask allows super admins, and the leader of the team owning the
// task's project.
func CanCreateTask(c identity.Caller, project *model.Project) error {
	switch c.Role {
	case model.RoleSuperAdmin:
		return nil
	case model.RoleTeamLeader:
		if c.SameTeam(project.TeamID) {
			return nil
		}
		return apperr.Unauthorizedf("team leader can only create tasks in their own team's projects")
	case model.RoleEmployee, model.RoleGuest:
	}
	return apperr.Unauthorizedf("role %s cannot create tasks", c.Role)
}

// CanUpdateTask allows super admins, the owning team's leader, and any
// current assignee of the task.
func CanUpdateTask(c identity.Caller, project *model.Project, isAssignee bool) error {
	switch c.Role {
	case model.RoleSuperAdmin:
		return nil
	case model.RoleTeamLeader:
		if c.SameTeam(project.TeamID) {
			return nil
		}
	case model.RoleEmployee:
		if isAssignee {
			return nil
		}
	case model.RoleGuest:
	}
	return apperr.Unauthorizedf("role %s cannot update this task", c.Role)
}

// CanBulkUpdateTasks gates schedule/dependency batch edits. Assignees are
// deliberately excluded: rescheduling is a planning operation.
func CanBulkUpdateTasks(c identity.Caller) error {
	switch c.Role {
	case model.RoleSuperAdmin, model.RoleTeamLeader:
		return nil
	case model.RoleEmployee, model.RoleGuest:
	}
	return apperr.Unauthorizedf("role %s cannot bulk-update tasks", c.Role)
}

// CanComment allows anyone with write-adjacent visibility of the task's
// project: admins, the owning team's leader, assignees, and guests scoped
// to the project.
func CanComment(c identity.Caller, project *model.Project, isAssignee bool) error {
	switch c.Role {
	case model.RoleSuperAdmin:
		return nil
	case model.RoleTeamLeader:
		if c.SameTeam(project.TeamID) {
			return nil
		}
	case model.RoleEmployee:
		if isAssignee {
			return nil
		}
	case model.RoleGuest:
		if c.ScopedTo(project.ID) {
			return nil
		}
	}
	return apperr.Unauthorizedf("role %s cannot comment on this task", c.Role)
}

// CanAddFinancial gates financial entries by type: income is super-admin
// only, expenses may also be recorded by the owning team's leader.
func CanAddFinancial(c identity.Caller, project *model.Project, typ model.TransactionType) error {
	switch c.Role {
	case model.RoleSuperAdmin:
		return nil
	case model.RoleTeamLeader:
		if typ == model.TransactionExpense && c.SameTeam(project.TeamID) {
			return nil
		}
		if typ == model.TransactionIncome {
			return apperr.Unauthorizedf("only a super admin can record income")
		}
	case model.RoleEmployee, model.RoleGuest:
	}
	return apperr.Unauthorizedf("role %s cannot record %s entries for this project", c.Role, typ)
}

// CanInviteGuest allows super admins and team leaders to invite or revoke
// project guests.
func CanInviteGuest(c identity.Caller) error {
	switch c.Role {
	case model.RoleSuperAdmin, model.RoleTeamLeader:
		return nil
	case model.RoleEmployee, model.RoleGuest:
	}
	return apperr.Unauthorizedf("role %s cannot manage project guests", c.Role)
}
