package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"planboard/internal/apperr"
	"planboard/internal/identity"
	"planboard/internal/model"
	"planboard/internal/repository"
	"planboard/internal/view"
)

// minQueryLength keeps trivially short substrings from scanning every
// text column; below it search returns empty results, not an error.
const minQueryLength = 3

type SearchService struct {
	projects  *repository.ProjectRepository
	tasks     *repository.TaskRepository
	comments  *repository.CommentRepository
	assembler *view.Assembler
}

func NewSearchService(
	projects *repository.ProjectRepository,
	tasks *repository.TaskRepository,
	comments *repository.CommentRepository,
	assembler *view.Assembler,
) *SearchService {
	return &SearchService{projects: projects, tasks: tasks, comments: comments, assembler: assembler}
}

type SearchResult struct {
	Projects []model.Project `json:"projects"`
	Tasks    []model.Task    `json:"tasks"`
	Comments []model.Comment `json:"comments"`
}

// Search runs a case-insensitive substring match over names, titles,
// descriptions and comment text, confined to the caller's visible
// projects.
func (s *SearchService) Search(ctx context.Context, caller identity.Caller, query string) (*SearchResult, error) {
	result := &SearchResult{
		Projects: []model.Project{},
		Tasks:    []model.Task{},
		Comments: []model.Comment{},
	}

	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLength {
		return result, nil
	}

	visible, err := s.assembler.VisibleProjects(ctx, caller)
	if err != nil {
		return nil, apperr.Transaction(err)
	}
	if len(visible) == 0 {
		return result, nil
	}
	projectIDs := make([]uuid.UUID, len(visible))
	for i, p := range visible {
		projectIDs[i] = p.ID
	}

	if result.Projects, err = s.projects.Search(ctx, query, projectIDs); err != nil {
		return nil, apperr.Transaction(err)
	}
	if result.Tasks, err = s.tasks.Search(ctx, query, projectIDs); err != nil {
		return nil, apperr.Transaction(err)
	}
	if result.Comments, err = s.comments.Search(ctx, query, projectIDs); err != nil {
		return nil, apperr.Transaction(err)
	}
	return result, nil
}
