package repository

import "errors"

// Common repository errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrCommentNotFound = errors.New("comment not found")

	// ErrDependencyCycle is returned when a dependency insert would make
	// the project's predecessor graph cyclic.
	ErrDependencyCycle = errors.New("task dependency cycle")
)
