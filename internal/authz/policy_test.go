package authz_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"planboard/internal/apperr"
	"planboard/internal/authz"
	"planboard/internal/identity"
	"planboard/internal/model"
)

var (
	teamA    = uuid.New()
	teamB    = uuid.New()
	projectA = &model.Project{ID: uuid.New(), TeamID: teamA}
	projectB = &model.Project{ID: uuid.New(), TeamID: teamB}
)

func superAdmin() identity.Caller {
	return identity.Caller{ID: uuid.New(), Role: model.RoleSuperAdmin}
}

func leaderOf(teamID uuid.UUID) identity.Caller {
	return identity.Caller{ID: uuid.New(), Role: model.RoleTeamLeader, TeamID: &teamID}
}

func employeeOf(teamID uuid.UUID) identity.Caller {
	return identity.Caller{ID: uuid.New(), Role: model.RoleEmployee, TeamID: &teamID}
}

func guestOf(projectID uuid.UUID) identity.Caller {
	return identity.Caller{ID: uuid.New(), Role: model.RoleGuest, ProjectID: &projectID}
}

func TestCanViewProject(t *testing.T) {
	vis := authz.ProjectVisibility{AssignedProjectIDs: map[uuid.UUID]bool{projectA.ID: true}}

	tests := []struct {
		name    string
		caller  identity.Caller
		project *model.Project
		want    bool
	}{
		{"super admin sees everything", superAdmin(), projectB, true},
		{"leader sees own team's project", leaderOf(teamA), projectA, true},
		{"leader does not see other team's project", leaderOf(teamA), projectB, false},
		{"employee sees project with own assignment", employeeOf(teamA), projectA, true},
		{"employee does not see unassigned project", employeeOf(teamA), projectB, false},
		{"guest sees exactly their project", guestOf(projectA.ID), projectA, true},
		{"guest does not see any other project", guestOf(projectA.ID), projectB, false},
		{"unknown role denies", identity.Caller{ID: uuid.New(), Role: model.Role("owner")}, projectA, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authz.CanViewProject(tt.caller, tt.project, vis))
		})
	}
}

func TestCanViewTask(t *testing.T) {
	task := &model.Task{ID: uuid.New(), ProjectID: projectA.ID}

	assert.True(t, authz.CanViewTask(superAdmin(), task, projectA, false))
	assert.True(t, authz.CanViewTask(leaderOf(teamA), task, projectA, false))
	assert.False(t, authz.CanViewTask(leaderOf(teamB), task, projectA, false))
	assert.True(t, authz.CanViewTask(employeeOf(teamA), task, projectA, true))
	assert.False(t, authz.CanViewTask(employeeOf(teamA), task, projectA, false))
	// Guests get full project visibility, not assignee-filtered.
	assert.True(t, authz.CanViewTask(guestOf(projectA.ID), task, projectA, false))
	assert.False(t, authz.CanViewTask(guestOf(projectB.ID), task, projectA, false))
}

func TestCanViewFinancials(t *testing.T) {
	assert.True(t, authz.CanViewFinancials(superAdmin(), projectA))
	assert.True(t, authz.CanViewFinancials(leaderOf(teamA), projectA))
	assert.False(t, authz.CanViewFinancials(leaderOf(teamB), projectA))
	assert.False(t, authz.CanViewFinancials(employeeOf(teamA), projectA))
	assert.False(t, authz.CanViewFinancials(guestOf(projectA.ID), projectA))
}

func TestAdminOnlyGates(t *testing.T) {
	gates := map[string]func(identity.Caller) error{
		"create project": authz.CanCreateProject,
		"delete project": authz.CanDeleteProject,
		"create team":    authz.CanCreateTeam,
		"update team":    authz.CanUpdateTeam,
		"delete team":    authz.CanDeleteTeam,
		"create user":    authz.CanCreateUser,
		"delete user":    authz.CanDeleteUser,
	}
	for name, gate := range gates {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, gate(superAdmin()))
			for _, c := range []identity.Caller{leaderOf(teamA), employeeOf(teamA), guestOf(projectA.ID)} {
				err := gate(c)
				assert.Error(t, err)
				assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
			}
		})
	}
}

func TestCanManageTeamMembers(t *testing.T) {
	assert.NoError(t, authz.CanManageTeamMembers(superAdmin(), teamA))
	assert.NoError(t, authz.CanManageTeamMembers(leaderOf(teamA), teamA))
	assert.Error(t, authz.CanManageTeamMembers(leaderOf(teamB), teamA))
	assert.Error(t, authz.CanManageTeamMembers(employeeOf(teamA), teamA))
	assert.Error(t, authz.CanManageTeamMembers(guestOf(projectA.ID), teamA))
}

func TestCanListTeamMembers(t *testing.T) {
	assert.NoError(t, authz.CanListTeamMembers(superAdmin(), teamA))
	assert.NoError(t, authz.CanListTeamMembers(leaderOf(teamA), teamA))
	assert.NoError(t, authz.CanListTeamMembers(employeeOf(teamA), teamA))
	assert.Error(t, authz.CanListTeamMembers(leaderOf(teamB), teamA))
	assert.Error(t, authz.CanListTeamMembers(employeeOf(teamB), teamA))
	assert.Error(t, authz.CanListTeamMembers(guestOf(projectA.ID), teamA))
}

func TestCanUpdateUser(t *testing.T) {
	target := &model.User{ID: uuid.New(), Role: model.RoleEmployee}

	assert.NoError(t, authz.CanUpdateUser(superAdmin(), target))

	self := identity.Caller{ID: target.ID, Role: model.RoleEmployee}
	assert.NoError(t, authz.CanUpdateUser(self, target))

	other := employeeOf(teamA)
	assert.Error(t, authz.CanUpdateUser(other, target))
}

func TestCanCreateTask(t *testing.T) {
	assert.NoError(t, authz.CanCreateTask(superAdmin(), projectA))
	assert.NoError(t, authz.CanCreateTask(leaderOf(teamA), projectA))
	assert.Error(t, authz.CanCreateTask(leaderOf(teamB), projectA))
	assert.Error(t, authz.CanCreateTask(employeeOf(teamA), projectA))
	assert.Error(t, authz.CanCreateTask(guestOf(projectA.ID), projectA))
}

func TestCanUpdateTask(t *testing.T) {
	assert.NoError(t, authz.CanUpdateTask(superAdmin(), projectA, false))
	assert.NoError(t, authz.CanUpdateTask(leaderOf(teamA), projectA, false))
	assert.Error(t, authz.CanUpdateTask(leaderOf(teamB), projectA, false))
	assert.NoError(t, authz.CanUpdateTask(employeeOf(teamA), projectA, true))
	assert.Error(t, authz.CanUpdateTask(employeeOf(teamA), projectA, false))
	assert.Error(t, authz.CanUpdateTask(guestOf(projectA.ID), projectA, false))
}

func TestCanBulkUpdateTasks(t *testing.T) {
	assert.NoError(t, authz.CanBulkUpdateTasks(superAdmin()))
	assert.NoError(t, authz.CanBulkUpdateTasks(leaderOf(teamA)))
	assert.Error(t, authz.CanBulkUpdateTasks(employeeOf(teamA)))
	assert.Error(t, authz.CanBulkUpdateTasks(guestOf(projectA.ID)))
}

func TestCanComment(t *testing.T) {
	assert.NoError(t, authz.CanComment(superAdmin(), projectA, false))
	assert.NoError(t, authz.CanComment(leaderOf(teamA), projectA, false))
	assert.Error(t, authz.CanComment(leaderOf(teamB), projectA, false))
	assert.NoError(t, authz.CanComment(employeeOf(teamA), projectA, true))
	assert.Error(t, authz.CanComment(employeeOf(teamA), projectA, false))
	assert.NoError(t, authz.CanComment(guestOf(projectA.ID), projectA, false))
	assert.Error(t, authz.CanComment(guestOf(projectB.ID), projectA, false))
}

func TestCanAddFinancial(t *testing.T) {
	// Income is super-admin only, even for the owning team's leader.
	assert.NoError(t, authz.CanAddFinancial(superAdmin(), projectA, model.TransactionIncome))
	err := authz.CanAddFinancial(leaderOf(teamA), projectA, model.TransactionIncome)
	assert.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	// Expenses: super admin anywhere, leader on own team's projects only.
	assert.NoError(t, authz.CanAddFinancial(superAdmin(), projectA, model.TransactionExpense))
	assert.NoError(t, authz.CanAddFinancial(leaderOf(teamA), projectA, model.TransactionExpense))
	assert.Error(t, authz.CanAddFinancial(leaderOf(teamB), projectA, model.TransactionExpense))
	assert.Error(t, authz.CanAddFinancial(employeeOf(teamA), projectA, model.TransactionExpense))
	assert.Error(t, authz.CanAddFinancial(guestOf(projectA.ID), projectA, model.TransactionExpense))
}

func TestCanInviteGuest(t *testing.T) {
	assert.NoError(t, authz.CanInviteGuest(superAdmin()))
	assert.NoError(t, authz.CanInviteGuest(leaderOf(teamA)))
	assert.Error(t, authz.CanInviteGuest(employeeOf(teamA)))
	assert.Error(t, authz.CanInviteGuest(guestOf(projectA.ID)))
}
