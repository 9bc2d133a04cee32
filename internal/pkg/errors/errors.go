package errors

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrRollupInconsistent means a journey reports fewer completed topics
	// than it has, yet no incomplete topic could be found.
	ErrRollupInconsistent = errors.New("rollup inconsistent: no incomplete topic for partially completed journey")
)
