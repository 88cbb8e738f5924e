package service

import (
	"errors"

	"planboard/internal/apperr"
	"planboard/internal/repository"
)

// storeErr lifts repository errors into the service error taxonomy.
// Anything unrecognized is a transaction-level failure: it already rolled
// back and the caller only gets a generic message.
func storeErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return apperr.NotFoundf("user not found")
	case errors.Is(err, repository.ErrTeamNotFound):
		return apperr.NotFoundf("team not found")
	case errors.Is(err, repository.ErrProjectNotFound):
		return apperr.NotFoundf("project not found")
	case errors.Is(err, repository.ErrTaskNotFound):
		return apperr.NotFoundf("task not found")
	case errors.Is(err, repository.ErrCommentNotFound):
		return apperr.NotFoundf("comment not found")
	case errors.Is(err, repository.ErrDependencyCycle):
		return apperr.Validationf("dependency set would create a cycle")
	default:
		return apperr.Transaction(err)
	}
}
