package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planboard/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create adds a new user to the database
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByEmail returns the user with the given email, or nil when absent
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDs retrieves the users matching the given IDs, in id order
func (r *UserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&users).Error
	return users, err
}

// GetAll retrieves every user, in id order
func (r *UserRepository) GetAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

// GetByRole retrieves every user holding the given role
func (r *UserRepository) GetByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("id").Find(&users).Error
	return users, err
}

// GetTeamMembers retrieves the users affiliated with a team
func (r *UserRepository) GetTeamMembers(ctx context.Context, teamID uuid.UUID) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Where("team_id = ?", teamID).Order("id").Find(&users).Error
	return users, err
}

// GetProjectGuests retrieves the guests scoped to a project
func (r *UserRepository) GetProjectGuests(ctx context.Context, projectID uuid.UUID) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND project_id = ?", model.RoleGuest, projectID).
		Order("id").
		Find(&users).Error
	return users, err
}

// SetTeam points the given users at a team (or clears the affiliation
// when teamID is nil) and returns the updated rows.
func (r *UserRepository) SetTeam(ctx context.Context, ids []uuid.UUID, teamID *uuid.UUID) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var value any
		if teamID != nil {
			value = *teamID
		}
		if err := tx.Model(&model.User{}).
			Where("id IN ?", ids).
			Update("team_id", value).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Order("id").Find(&users).Error
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Update persists all fields of an existing user
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	result := r.db.WithContext(ctx).Save(user)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Disable soft-deletes a user: the row stays for audit, authentication is
// refused.
func (r *UserRepository) Disable(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("disabled", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// HardDelete removes a user row entirely. Only guests are deleted this
// way; they carry no audit history.
func (r *UserRepository) HardDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
