package view

import (
	"context"

	"github.com/google/uuid"

	"planboard/internal/authz"
	"planboard/internal/identity"
	"planboard/internal/model"
	"planboard/internal/repository"
)

// Assembler reads back the store and builds nested views. It owns no
// state beyond the repositories and never mutates anything.
type Assembler struct {
	users      *repository.UserRepository
	teams      *repository.TeamRepository
	projects   *repository.ProjectRepository
	tasks      *repository.TaskRepository
	comments   *repository.CommentRepository
	financials *repository.FinancialRepository
}

func NewAssembler(
	users *repository.UserRepository,
	teams *repository.TeamRepository,
	projects *repository.ProjectRepository,
	tasks *repository.TaskRepository,
	comments *repository.CommentRepository,
	financials *repository.FinancialRepository,
) *Assembler {
	return &Assembler{
		users:      users,
		teams:      teams,
		projects:   projects,
		tasks:      tasks,
		comments:   comments,
		financials: financials,
	}
}

// AssembleTaskByID re-reads one task and its relations and folds them
// into a Task view. Services call this after every task mutation so the
// caller always receives the post-write state.
func (a *Assembler) AssembleTaskByID(ctx context.Context, taskID uuid.UUID) (*Task, error) {
	task, err := a.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	ids := []uuid.UUID{taskID}
	assignees, err := a.tasks.GetAssigneeRows(ctx, ids)
	if err != nil {
		return nil, err
	}
	dependencies, err := a.tasks.GetDependencyRows(ctx, ids)
	if err != nil {
		return nil, err
	}
	comments, err := a.comments.GetByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]uuid.UUID, 0, len(comments))
	seen := make(map[uuid.UUID]bool, len(comments))
	for _, c := range comments {
		if !seen[c.AuthorID] {
			seen[c.AuthorID] = true
			authorIDs = append(authorIDs, c.AuthorID)
		}
	}
	authors, err := a.users.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	assembled := AssembleTask(task, assignees, dependencies, comments, UsersByID(authors))
	return &assembled, nil
}

// VisibleProjects computes the caller's project read scope: every stored
// project run through the authz visibility predicate.
func (a *Assembler) VisibleProjects(ctx context.Context, caller identity.Caller) ([]model.Project, error) {
	all, err := a.projects.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	vis, err := a.projectVisibility(ctx, caller)
	if err != nil {
		return nil, err
	}

	visible := make([]model.Project, 0, len(all))
	for i := range all {
		if authz.CanViewProject(caller, &all[i], vis) {
			visible = append(visible, all[i])
		}
	}
	return visible, nil
}

// projectVisibility fetches the relationship facts CanViewProject needs.
// Only employees require a store lookup: their assignment set.
func (a *Assembler) projectVisibility(ctx context.Context, caller identity.Caller) (authz.ProjectVisibility, error) {
	if caller.Role != model.RoleEmployee {
		return authz.ProjectVisibility{}, nil
	}
	assigned, err := a.tasks.GetAssignedProjectIDs(ctx, caller.ID)
	if err != nil {
		return authz.ProjectVisibility{}, err
	}
	return authz.ProjectVisibility{AssignedProjectIDs: assigned}, nil
}

// Bootstrap assembles the caller's full snapshot: visible projects, the
// tasks inside them (assignee-filtered for employees), financials where
// permitted, and a Users array closed over every referenced user id.
func (a *Assembler) Bootstrap(ctx context.Context, caller identity.Caller) (*Bootstrap, error) {
	projects, err := a.VisibleProjects(ctx, caller)
	if err != nil {
		return nil, err
	}
	projectIDs := make([]uuid.UUID, len(projects))
	projectsByID := make(map[uuid.UUID]*model.Project, len(projects))
	for i := range projects {
		projectIDs[i] = projects[i].ID
		projectsByID[projects[i].ID] = &projects[i]
	}

	candidates, err := a.tasks.GetByProjectIDs(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	candidateIDs := make([]uuid.UUID, len(candidates))
	for i := range candidates {
		candidateIDs[i] = candidates[i].ID
	}
	candidateAssignees, err := a.tasks.GetAssigneeRows(ctx, candidateIDs)
	if err != nil {
		return nil, err
	}
	assignedToCaller := make(map[uuid.UUID]bool)
	for _, row := range candidateAssignees {
		if row.UserID == caller.ID {
			assignedToCaller[row.TaskID] = true
		}
	}

	tasks := make([]model.Task, 0, len(candidates))
	visibleTaskIDs := make(map[uuid.UUID]bool, len(candidates))
	taskIDs := make([]uuid.UUID, 0, len(candidates))
	for i := range candidates {
		t := &candidates[i]
		if authz.CanViewTask(caller, t, projectsByID[t.ProjectID], assignedToCaller[t.ID]) {
			tasks = append(tasks, *t)
			visibleTaskIDs[t.ID] = true
			taskIDs = append(taskIDs, t.ID)
		}
	}

	assignees := make([]model.TaskAssignee, 0, len(candidateAssignees))
	for _, row := range candidateAssignees {
		if visibleTaskIDs[row.TaskID] {
			assignees = append(assignees, row)
		}
	}
	dependencies, err := a.tasks.GetDependencyRows(ctx, taskIDs)
	if err != nil {
		return nil, err
	}
	comments, err := a.comments.GetByTaskIDs(ctx, taskIDs)
	if err != nil {
		return nil, err
	}

	users, err := a.visibleUsers(ctx, caller, assignees, comments)
	if err != nil {
		return nil, err
	}
	usersByID := UsersByID(users)

	taskViews := make([]Task, len(tasks))
	for i := range tasks {
		taskViews[i] = AssembleTask(&tasks[i], assignees, dependencies, comments, usersByID)
	}

	var financials []model.FinancialTransaction
	visibleFinancialIDs := make([]uuid.UUID, 0, len(projects))
	for i := range projects {
		if authz.CanViewFinancials(caller, &projects[i]) {
			visibleFinancialIDs = append(visibleFinancialIDs, projects[i].ID)
		}
	}
	if len(visibleFinancialIDs) > 0 {
		financials, err = a.financials.GetByProjectIDs(ctx, visibleFinancialIDs)
		if err != nil {
			return nil, err
		}
	}

	teams, err := a.visibleTeams(ctx, caller)
	if err != nil {
		return nil, err
	}

	userViews := make([]User, len(users))
	for i := range users {
		userViews[i] = NewUser(&users[i])
	}

	return &Bootstrap{
		Users:      userViews,
		Teams:      teams,
		Projects:   projects,
		Tasks:      taskViews,
		Financials: financials,
	}, nil
}

// visibleUsers returns the Users array for the snapshot. Admins and team
// leaders get the full directory for their admin UI; employees and guests
// get the closure of users the rest of the snapshot references, plus
// themselves, so no returned view dangles.
func (a *Assembler) visibleUsers(
	ctx context.Context,
	caller identity.Caller,
	assignees []model.TaskAssignee,
	comments []model.Comment,
) ([]model.User, error) {
	switch caller.Role {
	case model.RoleSuperAdmin, model.RoleTeamLeader:
		return a.users.GetAll(ctx)
	case model.RoleEmployee, model.RoleGuest:
		referenced := map[uuid.UUID]bool{caller.ID: true}
		for _, row := range assignees {
			referenced[row.UserID] = true
		}
		for _, c := range comments {
			referenced[c.AuthorID] = true
		}
		ids := make([]uuid.UUID, 0, len(referenced))
		for id := range referenced {
			ids = append(ids, id)
		}
		return a.users.GetByIDs(ctx, ids)
	}
	return nil, nil
}

func (a *Assembler) visibleTeams(ctx context.Context, caller identity.Caller) ([]model.Team, error) {
	switch caller.Role {
	case model.RoleSuperAdmin:
		return a.teams.GetAll(ctx)
	case model.RoleTeamLeader, model.RoleEmployee:
		if caller.TeamID == nil {
			return nil, nil
		}
		team, err := a.teams.GetByID(ctx, *caller.TeamID)
		if err != nil {
			return nil, err
		}
		return []model.Team{*team}, nil
	case model.RoleGuest:
		return nil, nil
	}
	return nil, nil
}
