package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"planboard/internal/apperr"
	"planboard/internal/authz"
	"planboard/internal/identity"
	"planboard/internal/model"
	"planboard/internal/notify"
	"planboard/internal/repository"
	"planboard/internal/view"
)

// TaskService implements the task mutation operations. Every operation
// runs authorize -> transactional write -> re-assemble -> fan out, and a
// failure before commit leaves the store untouched.
type TaskService struct {
	tasks     *repository.TaskRepository
	projects  *repository.ProjectRepository
	comments  *repository.CommentRepository
	assembler *view.Assembler
	fanout    *notify.Fanout
}

func NewTaskService(
	tasks *repository.TaskRepository,
	projects *repository.ProjectRepository,
	comments *repository.CommentRepository,
	assembler *view.Assembler,
	fanout *notify.Fanout,
) *TaskService {
	return &TaskService{
		tasks:     tasks,
		projects:  projects,
		comments:  comments,
		assembler: assembler,
		fanout:    fanout,
	}
}

// TaskFields is the full scalar state plus the assignee set for a task
// update. Updates are overwrites, not patches: the assignee set replaces
// the current one wholesale.
type TaskFields struct {
	Title             string
	Description       string
	ColumnID          model.Column
	StartDate         time.Time
	EndDate           time.Time
	BaselineStartDate *time.Time
	BaselineEndDate   *time.Time
	PlannedCost       float64
	ActualCost        float64
	IsMilestone       bool
	ParentID          *uuid.UUID
	AssigneeIDs       []uuid.UUID
}

// TaskCreateFields carries what a new task needs; workflow state and
// costs start at their fixed initial values.
type TaskCreateFields struct {
	ProjectID   uuid.UUID
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	ParentID    *uuid.UUID
	AssigneeIDs []uuid.UUID
}

// BulkTaskFields is one task's slice of a bulk schedule/dependency edit.
type BulkTaskFields struct {
	TaskID        uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	DependencyIDs []uuid.UUID
}

// Update overwrites a task's scalar fields and replaces its assignee set,
// then returns the reassembled task. Comments and dependencies are not
// touched by this operation.
func (s *TaskService) Update(ctx context.Context, caller identity.Caller, taskID uuid.UUID, fields TaskFields) (*view.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, storeErr(err)
	}
	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, storeErr(err)
	}
	isAssignee, err := s.tasks.IsAssignee(ctx, taskID, caller.ID)
	if err != nil {
		return nil, storeErr(err)
	}
	if err := authz.CanUpdateTask(caller, project, isAssignee); err != nil {
		return nil, err
	}

	if fields.Title == "" {
		return nil, apperr.Validationf("task title is required")
	}
	if !fields.ColumnID.Valid() {
		return nil, apperr.Validationf("unknown column %q", fields.ColumnID)
	}

	beforeRows, err := s.tasks.GetAssigneeRows(ctx, []uuid.UUID{taskID})
	if err != nil {
		return nil, storeErr(err)
	}
	beforeAssignees := make([]uuid.UUID, len(beforeRows))
	for i, row := range beforeRows {
		beforeAssignees[i] = row.UserID
	}
	before := *task

	task.Title = fields.Title
	task.Description = fields.Description
	task.ColumnID = fields.ColumnID
	task.StartDate = fields.StartDate
	task.EndDate = fields.EndDate
	task.BaselineStartDate = fields.BaselineStartDate
	task.BaselineEndDate = fields.BaselineEndDate
	task.PlannedCost = fields.PlannedCost
	task.ActualCost = fields.ActualCost
	task.IsMilestone = fields.IsMilestone
	task.ParentID = fields.ParentID

	if err := s.tasks.UpdateWithAssignees(ctx, task, fields.AssigneeIDs); err != nil {
		return nil, storeErr(err)
	}

	assembled, err := s.assembler.AssembleTaskByID(ctx, taskID)
	if err != nil {
		return nil, storeErr(err)
	}

	s.fanout.TaskChanged(ctx, notify.TaskDelta{
		Before:            &before,
		After:             task,
		BeforeAssigneeIDs: beforeAssignees,
		AfterAssigneeIDs:  assembled.AssigneeIDs,
	})

	return assembled, nil
}

// BulkUpdate applies schedule and dependency edits to a batch of tasks
// as one transaction: any failing task rolls back the whole batch. Only
// planners (super admins and team leaders) may call it; a leader is
// additionally confined to their own team's projects.
func (s *TaskService) BulkUpdate(ctx context.Context, caller identity.Caller, batch []BulkTaskFields) ([]view.Task, error) {
	if err := authz.CanBulkUpdateTasks(caller); err != nil {
		return nil, err
	}
	if len(batch) == 0 {
		return []view.Task{}, nil
	}

	deltas := make(map[uuid.UUID]model.Task, len(batch))
	updates := make([]repository.ScheduleUpdate, 0, len(batch))
	for _, fields := range batch {
		task, err := s.tasks.GetByID(ctx, fields.TaskID)
		if err != nil {
			return nil, storeErr(err)
		}
		if caller.Role == model.RoleTeamLeader {
			project, err := s.projects.GetByID(ctx, task.ProjectID)
			if err != nil {
				return nil, storeErr(err)
			}
			if !caller.SameTeam(project.TeamID) {
				return nil, apperr.Unauthorizedf("team leader can only bulk-update their own team's tasks")
			}
		}
		deltas[task.ID] = *task
		updates = append(updates, repository.ScheduleUpdate{
			TaskID:        fields.TaskID,
			StartDate:     fields.StartDate,
			EndDate:       fields.EndDate,
			DependencyIDs: fields.DependencyIDs,
		})
	}

	if err := s.tasks.BulkUpdateSchedule(ctx, updates); err != nil {
		return nil, storeErr(err)
	}

	out := make([]view.Task, 0, len(batch))
	for _, fields := range batch {
		assembled, err := s.assembler.AssembleTaskByID(ctx, fields.TaskID)
		if err != nil {
			return nil, storeErr(err)
		}
		out = append(out, *assembled)

		before := deltas[fields.TaskID]
		after := before
		after.StartDate = fields.StartDate
		after.EndDate = fields.EndDate
		s.fanout.TaskChanged(ctx, notify.TaskDelta{
			Before:            &before,
			After:             &after,
			BeforeAssigneeIDs: assembled.AssigneeIDs,
			AfterAssigneeIDs:  assembled.AssigneeIDs,
		})
	}
	return out, nil
}

// Create inserts a task in its fixed initial state: not-started, zero
// costs, no milestone flag, no comments or dependencies.
func (s *TaskService) Create(ctx context.Context, caller identity.Caller, fields TaskCreateFields) (*view.Task, error) {
	project, err := s.projects.GetByID(ctx, fields.ProjectID)
	if err != nil {
		return nil, storeErr(err)
	}
	if err := authz.CanCreateTask(caller, project); err != nil {
		return nil, err
	}
	if fields.Title == "" {
		return nil, apperr.Validationf("task title is required")
	}

	task := &model.Task{
		ID:          uuid.New(),
		ProjectID:   fields.ProjectID,
		Title:       fields.Title,
		Description: fields.Description,
		ColumnID:    model.ColumnNotStarted,
		StartDate:   fields.StartDate,
		EndDate:     fields.EndDate,
		ParentID:    fields.ParentID,
	}
	if err := s.tasks.Create(ctx, task, fields.AssigneeIDs); err != nil {
		return nil, storeErr(err)
	}

	assembled, err := s.assembler.AssembleTaskByID(ctx, task.ID)
	if err != nil {
		return nil, storeErr(err)
	}

	s.fanout.TaskChanged(ctx, notify.TaskDelta{
		After:            task,
		AfterAssigneeIDs: assembled.AssigneeIDs,
	})

	return assembled, nil
}

// AddComment appends a comment and returns the task's full reassembled
// state so the caller always holds a consistent task, not a lone comment.
func (s *TaskService) AddComment(ctx context.Context, caller identity.Caller, taskID uuid.UUID, text string, parentID *uuid.UUID) (*view.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, storeErr(err)
	}
	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, storeErr(err)
	}
	isAssignee, err := s.tasks.IsAssignee(ctx, taskID, caller.ID)
	if err != nil {
		return nil, storeErr(err)
	}
	if err := authz.CanComment(caller, project, isAssignee); err != nil {
		return nil, err
	}

	if text == "" {
		return nil, apperr.Validationf("comment text is required")
	}

	comment := &model.Comment{
		ID:       uuid.New(),
		TaskID:   taskID,
		AuthorID: caller.ID,
		Text:     text,
		ParentID: parentID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storeErr(err)
	}

	assembled, err := s.assembler.AssembleTaskByID(ctx, taskID)
	if err != nil {
		return nil, storeErr(err)
	}

	s.fanout.CommentAdded(ctx, task, caller.ID, assembled.AssigneeIDs)

	return assembled, nil
}
