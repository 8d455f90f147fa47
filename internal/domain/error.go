package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("could not validate credentials")

	// Turn pipeline errors
	ErrTurnInProgress     = errors.New("another turn is in progress for this user")
	ErrAITimeout          = errors.New("generation timed out")
	ErrInvalidExecContext = errors.New("invalid query execution context")
)
