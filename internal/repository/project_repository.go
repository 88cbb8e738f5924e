package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planboard/internal/model"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create adds a new project to the database
func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetAll retrieves every project, oldest first
func (r *ProjectRepository) GetAll(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).Order("created_at, id").Find(&projects).Error
	return projects, err
}

// Update persists all fields of an existing project
func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	result := r.db.WithContext(ctx).Save(project)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// Search retrieves projects among the given IDs whose name or description
// contains the query, case-insensitive
func (r *ProjectRepository) Search(ctx context.Context, query string, projectIDs []uuid.UUID) ([]model.Project, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	pattern := "%" + query + "%"
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("id IN ?", projectIDs).
		Where("name ILIKE ? OR description ILIKE ?", pattern, pattern).
		Order("created_at, id").
		Find(&projects).Error
	return projects, err
}

// DeleteCascade removes a project together with everything it exclusively
// owns: tasks, their join rows and comments, financial entries. Guests
// scoped to the project lose their scope but keep their account rows.
func (r *ProjectRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uuid.UUID
		if err := tx.Model(&model.Task{}).
			Where("project_id = ?", id).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.TaskAssignee{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ? OR depends_on_id IN ?", taskIDs, taskIDs).
				Delete(&model.TaskDependency{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.Notification{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("project_id = ?", id).Delete(&model.FinancialTransaction{}).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.User{}).
			Where("role = ? AND project_id = ?", model.RoleGuest, id).
			Update("project_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Project{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProjectNotFound
		}
		return nil
	})
}
