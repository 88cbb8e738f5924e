package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"planboard/internal/apperr"
	"planboard/internal/authz"
	"planboard/internal/identity"
	"planboard/internal/model"
	"planboard/internal/repository"
)

type ProjectService struct {
	projects *repository.ProjectRepository
	teams    *repository.TeamRepository
}

func NewProjectService(projects *repository.ProjectRepository, teams *repository.TeamRepository) *ProjectService {
	return &ProjectService{projects: projects, teams: teams}
}

type ProjectCreateFields struct {
	Name        string
	Description string
	TeamID      uuid.UUID
	Budget      float64
	StartDate   time.Time
	EndDate     time.Time
}

// Create makes a project under an owning team. Super admins only.
func (s *ProjectService) Create(ctx context.Context, caller identity.Caller, fields ProjectCreateFields) (*model.Project, error) {
	if err := authz.CanCreateProject(caller); err != nil {
		return nil, err
	}
	if fields.Name == "" {
		return nil, apperr.Validationf("project name is required")
	}
	if _, err := s.teams.GetByID(ctx, fields.TeamID); err != nil {
		return nil, storeErr(err)
	}

	project := &model.Project{
		ID:          uuid.New(),
		Name:        fields.Name,
		Description: fields.Description,
		TeamID:      fields.TeamID,
		Budget:      fields.Budget,
		StartDate:   fields.StartDate,
		EndDate:     fields.EndDate,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperr.Transaction(err)
	}
	return project, nil
}

// Delete removes a project and everything it owns: tasks with their join
// rows and comments, and financial entries. Guests scoped to the project
// lose their scope.
func (s *ProjectService) Delete(ctx context.Context, caller identity.Caller, projectID uuid.UUID) error {
	if err := authz.CanDeleteProject(caller); err != nil {
		return err
	}
	if err := s.projects.DeleteCascade(ctx, projectID); err != nil {
		return storeErr(err)
	}
	return nil
}
