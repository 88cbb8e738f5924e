package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planboard/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Set-replace writes run serializable so a concurrent reader never sees
// the window between delete-all and insert-new.
var setReplaceTxOpts = &sql.TxOptions{Isolation: sql.LevelSerializable}

// Create inserts the task and its assignee links in one transaction
func (r *TaskRepository) Create(ctx context.Context, task *model.Task, assigneeIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return insertAssignees(tx, task.ID, assigneeIDs)
	})
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetByProjectIDs retrieves every task in the given projects, oldest first
func (r *TaskRepository) GetByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]model.Task, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Order("created_at, id").
		Find(&tasks).Error
	return tasks, err
}

// GetAssignedProjectIDs returns the set of projects in which the user
// holds at least one assignment. Feeds the employee visibility predicate.
func (r *TaskRepository) GetAssignedProjectIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Distinct("tasks.project_id").
		Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
		Where("task_assignees.user_id = ?", userID).
		Pluck("tasks.project_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// IsAssignee reports whether the user currently holds an assignment on
// the task
func (r *TaskRepository) IsAssignee(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TaskAssignee{}).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Count(&count).Error
	return count > 0, err
}

// GetAssigneeRows retrieves the assignee links for the given tasks
func (r *TaskRepository) GetAssigneeRows(ctx context.Context, taskIDs []uuid.UUID) ([]model.TaskAssignee, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	var rows []model.TaskAssignee
	err := r.db.WithContext(ctx).
		Where("task_id IN ?", taskIDs).
		Order("task_id, user_id").
		Find(&rows).Error
	return rows, err
}

// GetDependencyRows retrieves the predecessor links for the given tasks
func (r *TaskRepository) GetDependencyRows(ctx context.Context, taskIDs []uuid.UUID) ([]model.TaskDependency, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	var rows []model.TaskDependency
	err := r.db.WithContext(ctx).
		Where("task_id IN ?", taskIDs).
		Order("task_id, depends_on_id").
		Find(&rows).Error
	return rows, err
}

// UpdateWithAssignees overwrites the task's scalar fields and replaces
// its assignee set. The replace is delete-all then insert-new; the
// serializable transaction keeps the empty window invisible to readers.
// Comments and dependencies are not touched.
func (r *TaskRepository) UpdateWithAssignees(ctx context.Context, task *model.Task, assigneeIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Save(task)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}

		if err := tx.Where("task_id = ?", task.ID).Delete(&model.TaskAssignee{}).Error; err != nil {
			return err
		}
		return insertAssignees(tx, task.ID, assigneeIDs)
	}, setReplaceTxOpts)
}

// GetOverdue retrieves every task whose end date passed strictly before
// the given moment and which is not done yet
func (r *TaskRepository) GetOverdue(ctx context.Context, now time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("end_date < ? AND column_id <> ?", now, model.ColumnDone).
		Order("created_at, id").
		Find(&tasks).Error
	return tasks, err
}

// Search retrieves tasks in the given projects whose title or description
// contains the query, case-insensitive
func (r *TaskRepository) Search(ctx context.Context, query string, projectIDs []uuid.UUID) ([]model.Task, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	pattern := "%" + query + "%"
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Where("title ILIKE ? OR description ILIKE ?", pattern, pattern).
		Order("created_at, id").
		Find(&tasks).Error
	return tasks, err
}

// ScheduleUpdate is one task's slice of a bulk schedule edit.
type ScheduleUpdate struct {
	TaskID        uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	DependencyIDs []uuid.UUID
}

// BulkUpdateSchedule applies every update in one transaction: dates are
// overwritten and each task's dependency set is replaced. A failing task
// rolls back the whole batch. Dependency edges that would make any
// affected project's graph cyclic are rejected with ErrDependencyCycle.
func (r *TaskRepository) BulkUpdateSchedule(ctx context.Context, updates []ScheduleUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		newDeps := make(map[uuid.UUID][]uuid.UUID, len(updates))
		var projectIDs []uuid.UUID

		for _, u := range updates {
			var task model.Task
			if err := tx.First(&task, "id = ?", u.TaskID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrTaskNotFound
				}
				return err
			}

			result := tx.Model(&model.Task{}).
				Where("id = ?", u.TaskID).
				Updates(map[string]any{
					"start_date": u.StartDate,
					"end_date":   u.EndDate,
				})
			if result.Error != nil {
				return result.Error
			}

			newDeps[u.TaskID] = u.DependencyIDs
			projectIDs = append(projectIDs, task.ProjectID)
		}

		if err := rejectCycles(tx, projectIDs, newDeps); err != nil {
			return err
		}

		for taskID, deps := range newDeps {
			if err := tx.Where("task_id = ?", taskID).Delete(&model.TaskDependency{}).Error; err != nil {
				return err
			}
			if err := insertDependencies(tx, taskID, deps); err != nil {
				return err
			}
		}
		return nil
	}, setReplaceTxOpts)
}

func insertAssignees(tx *gorm.DB, taskID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]model.TaskAssignee, 0, len(userIDs))
	seen := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, model.TaskAssignee{TaskID: taskID, UserID: id})
	}
	return tx.Create(&rows).Error
}

func insertDependencies(tx *gorm.DB, taskID uuid.UUID, dependsOn []uuid.UUID) error {
	if len(dependsOn) == 0 {
		return nil
	}
	rows := make([]model.TaskDependency, 0, len(dependsOn))
	seen := make(map[uuid.UUID]bool, len(dependsOn))
	for _, id := range dependsOn {
		if seen[id] || id == taskID {
			continue
		}
		seen[id] = true
		rows = append(rows, model.TaskDependency{TaskID: taskID, DependsOnID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// rejectCycles loads the dependency edges of every task in the affected
// projects, overlays the pending replacements and refuses the write if
// the combined graph has a cycle.
func rejectCycles(tx *gorm.DB, projectIDs []uuid.UUID, newDeps map[uuid.UUID][]uuid.UUID) error {
	var existing []model.TaskDependency
	err := tx.
		Joins("JOIN tasks ON tasks.id = task_dependencies.task_id").
		Where("tasks.project_id IN ?", projectIDs).
		Find(&existing).Error
	if err != nil {
		return err
	}

	adj := make(map[uuid.UUID][]uuid.UUID)
	for _, row := range existing {
		if _, replaced := newDeps[row.TaskID]; replaced {
			continue
		}
		adj[row.TaskID] = append(adj[row.TaskID], row.DependsOnID)
	}
	for taskID, deps := range newDeps {
		for _, dep := range deps {
			if dep == taskID {
				return ErrDependencyCycle
			}
			adj[taskID] = append(adj[taskID], dep)
		}
	}

	if hasCycle(adj) {
		return ErrDependencyCycle
	}
	return nil
}
