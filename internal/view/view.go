// Package view reshapes normalized rows into the nested objects the API
// returns. Assembly is a pure read: it never writes and the same rows
// always produce the same output.
package view

import (
	"time"

	"github.com/google/uuid"

	"planboard/internal/model"
)

// Author is the denormalized snapshot of a comment's author embedded at
// read time. If the author later renames, old comments show the new name.
type Author struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	Role      model.Role `json:"role"`
	Email     string     `json:"email"`
}

type Comment struct {
	ID        uuid.UUID  `json:"id"`
	TaskID    uuid.UUID  `json:"task_id"`
	Author    Author     `json:"author"`
	Text      string     `json:"text"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Task is a task row with its relations folded in: assignee ids,
// predecessor ids and comments in ascending timestamp order.
type Task struct {
	ID                uuid.UUID    `json:"id"`
	ProjectID         uuid.UUID    `json:"project_id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	ColumnID          model.Column `json:"column_id"`
	StartDate         time.Time    `json:"start_date"`
	EndDate           time.Time    `json:"end_date"`
	BaselineStartDate *time.Time   `json:"baseline_start_date,omitempty"`
	BaselineEndDate   *time.Time   `json:"baseline_end_date,omitempty"`
	PlannedCost       float64      `json:"planned_cost"`
	ActualCost        float64      `json:"actual_cost"`
	IsMilestone       bool         `json:"is_milestone"`
	ParentID          *uuid.UUID   `json:"parent_id,omitempty"`
	AssigneeIDs       []uuid.UUID  `json:"assignee_ids"`
	DependencyIDs     []uuid.UUID  `json:"dependency_ids"`
	Comments          []Comment    `json:"comments"`
}

// User is the outward shape of a user row; no credential material.
type User struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	Role      model.Role `json:"role"`
	TeamID    *uuid.UUID `json:"team_id,omitempty"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	Disabled  bool       `json:"disabled"`

	NotifyOnAssignment    bool `json:"notify_on_assignment"`
	NotifyOnComment       bool `json:"notify_on_comment"`
	NotifyOnStatusChange  bool `json:"notify_on_status_change"`
	NotifyOnDueDateChange bool `json:"notify_on_due_date_change"`
}

// Bootstrap is the full role-scoped snapshot handed to a client on load.
// Every user id referenced by Tasks resolves against Users.
type Bootstrap struct {
	Users      []User                       `json:"users"`
	Teams      []model.Team                 `json:"teams"`
	Projects   []model.Project              `json:"projects"`
	Tasks      []Task                       `json:"tasks"`
	Financials []model.FinancialTransaction `json:"financials"`
}

// NewUser builds the outward view of a user row.
func NewUser(u *model.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		TeamID:    u.TeamID,
		ProjectID: u.ProjectID,
		Disabled:  u.Disabled,

		NotifyOnAssignment:    u.NotifyOnAssignment,
		NotifyOnComment:       u.NotifyOnComment,
		NotifyOnStatusChange:  u.NotifyOnStatusChange,
		NotifyOnDueDateChange: u.NotifyOnDueDateChange,
	}
}

// NewAuthor builds the embedded author snapshot for a comment.
func NewAuthor(u *model.User) Author {
	return Author{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		Email:     u.Email,
	}
}

// AssembleTask folds a task row and its relation rowsets into a Task.
// Rows belonging to other tasks are ignored, so callers may pass the
// rowsets of a whole batch. Comment rows are expected ordered by
// (created_at, id); assembly preserves that order.
func AssembleTask(
	task *model.Task,
	assignees []model.TaskAssignee,
	dependencies []model.TaskDependency,
	comments []model.Comment,
	usersByID map[uuid.UUID]*model.User,
) Task {
	out := Task{
		ID:                task.ID,
		ProjectID:         task.ProjectID,
		Title:             task.Title,
		Description:       task.Description,
		ColumnID:          task.ColumnID,
		StartDate:         task.StartDate,
		EndDate:           task.EndDate,
		BaselineStartDate: task.BaselineStartDate,
		BaselineEndDate:   task.BaselineEndDate,
		PlannedCost:       task.PlannedCost,
		ActualCost:        task.ActualCost,
		IsMilestone:       task.IsMilestone,
		ParentID:          task.ParentID,
		AssigneeIDs:       []uuid.UUID{},
		DependencyIDs:     []uuid.UUID{},
		Comments:          []Comment{},
	}

	for _, row := range assignees {
		if row.TaskID == task.ID {
			out.AssigneeIDs = append(out.AssigneeIDs, row.UserID)
		}
	}
	for _, row := range dependencies {
		if row.TaskID == task.ID {
			out.DependencyIDs = append(out.DependencyIDs, row.DependsOnID)
		}
	}
	for _, c := range comments {
		if c.TaskID != task.ID {
			continue
		}
		cv := Comment{
			ID:        c.ID,
			TaskID:    c.TaskID,
			Text:      c.Text,
			ParentID:  c.ParentID,
			CreatedAt: c.CreatedAt,
		}
		if author, ok := usersByID[c.AuthorID]; ok {
			cv.Author = NewAuthor(author)
		}
		out.Comments = append(out.Comments, cv)
	}

	return out
}

// UsersByID indexes user rows for assembly lookups.
func UsersByID(users []model.User) map[uuid.UUID]*model.User {
	byID := make(map[uuid.UUID]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID
}
