package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrOptimisticRejected    = errors.New("optimistic update rejected")
	ErrServiceClosed         = errors.New("service closed")
)
