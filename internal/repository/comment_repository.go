package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planboard/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create adds a new comment to the database
func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetByTaskID retrieves a task's comments oldest first, id as tiebreak so
// the order is stable across reads
func (r *CommentRepository) GetByTaskID(ctx context.Context, taskID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at, id").
		Find(&comments).Error
	return comments, err
}

// GetByTaskIDs retrieves the comments of all given tasks, same ordering
// as GetByTaskID
func (r *CommentRepository) GetByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]model.Comment, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Where("task_id IN ?", taskIDs).
		Order("created_at, id").
		Find(&comments).Error
	return comments, err
}

// Search retrieves comments on tasks in the given projects whose text
// contains the query, case-insensitive
func (r *CommentRepository) Search(ctx context.Context, query string, projectIDs []uuid.UUID) ([]model.Comment, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = comments.task_id").
		Where("tasks.project_id IN ?", projectIDs).
		Where("comments.text ILIKE ?", "%"+query+"%").
		Order("comments.created_at, comments.id").
		Find(&comments).Error
	return comments, err
}
