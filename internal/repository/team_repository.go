package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"planboard/internal/model"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create adds a new team to the database
func (r *TeamRepository) Create(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).First(&team, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetAll retrieves every team, in id order
func (r *TeamRepository) GetAll(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).Order("id").Find(&teams).Error
	return teams, err
}

// Update persists all fields of an existing team
func (r *TeamRepository) Update(ctx context.Context, team *model.Team) error {
	result := r.db.WithContext(ctx).Save(team)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// ReconcileMembers replaces the team's member set as a set-difference:
// users entering the set get team_id set, users leaving it get team_id
// cleared. Both directions happen in one transaction and every touched
// user is returned so callers can propagate the changes without a refetch.
func (r *TeamRepository) ReconcileMembers(ctx context.Context, teamID uuid.UUID, memberIDs []uuid.UUID) ([]model.User, error) {
	var changed []model.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []model.User
		if err := tx.Where("team_id = ?", teamID).Find(&current).Error; err != nil {
			return err
		}

		wanted := make(map[uuid.UUID]bool, len(memberIDs))
		for _, id := range memberIDs {
			wanted[id] = true
		}
		existing := make(map[uuid.UUID]bool, len(current))
		for _, u := range current {
			existing[u.ID] = true
		}

		var toAdd, toRemove []uuid.UUID
		for id := range wanted {
			if !existing[id] {
				toAdd = append(toAdd, id)
			}
		}
		for id := range existing {
			if !wanted[id] {
				toRemove = append(toRemove, id)
			}
		}

		if len(toAdd) > 0 {
			if err := tx.Model(&model.User{}).
				Where("id IN ?", toAdd).
				Update("team_id", teamID).Error; err != nil {
				return err
			}
		}
		if len(toRemove) > 0 {
			if err := tx.Model(&model.User{}).
				Where("id IN ?", toRemove).
				Update("team_id", nil).Error; err != nil {
				return err
			}
		}

		touched := append(append([]uuid.UUID{}, toAdd...), toRemove...)
		if len(touched) == 0 {
			return nil
		}
		return tx.Where("id IN ?", touched).Order("id").Find(&changed).Error
	})
	if err != nil {
		return nil, err
	}
	return changed, nil
}

// Delete removes the team and clears every member's affiliation. Members
// are never deleted with their team; the affiliation is a reference, not
// ownership.
func (r *TeamRepository) Delete(ctx context.Context, id uuid.UUID) ([]model.User, error) {
	var released []model.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Order("id").Find(&released).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.User{}).
			Where("team_id = ?", id).
			Update("team_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Team{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTeamNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range released {
		released[i].TeamID = nil
	}
	return released, nil
}
