package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planboard/internal/model"
)

type FinancialRepository struct {
	db *gorm.DB
}

func NewFinancialRepository(db *gorm.DB) *FinancialRepository {
	return &FinancialRepository{db: db}
}

// Create adds a new financial entry to the database
func (r *FinancialRepository) Create(ctx context.Context, entry *model.FinancialTransaction) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByProjectIDs retrieves the entries for the given projects, most
// recent first so new entries lead the project's list
func (r *FinancialRepository) GetByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]model.FinancialTransaction, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	var entries []model.FinancialTransaction
	err := r.db.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Order("created_at DESC, id").
		Find(&entries).Error
	return entries, err
}
