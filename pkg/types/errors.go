package types

import "errors"

// Lookup and paging errors.
var (
	ErrNotFound    = errors.New("entity not found")
	ErrInvalidID   = errors.New("invalid entity ID")
	ErrInvalidPage = errors.New("skip and take must be non-negative")
)

// Entity validation errors. These are returned before any network call.
var (
	ErrInvalidTitle = errors.New("title must not be empty")
	ErrInvalidName  = errors.New("name must not be empty")
)

// Hierarchy errors raised by the domain services.
var (
	ErrMissionNotFound = errors.New("mission not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrParentNotFound  = errors.New("parent task not found")
	ErrNestedSubtask   = errors.New("cannot create subtask under another subtask; only single-level nesting is supported")
)
