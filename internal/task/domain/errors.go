package domain

import "errors"

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrParentNotFound  = errors.New("parent task not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrCyclicParent    = errors.New("task cannot be its own ancestor")
	ErrInvalidInput    = errors.New("invalid input")
)
