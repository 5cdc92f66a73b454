package tasks

import "errors"

// Sentinel errors for task operations. The messages are stable: they cross
// the service container as strings and the API module matches on them.
var (
	// ErrTaskNotFound is returned when the requested task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTitleRequired is returned when a title is empty.
	ErrTitleRequired = errors.New("title is required")

	// ErrTitleTooLong is returned when a title exceeds 200 characters.
	ErrTitleTooLong = errors.New("title exceeds 200 characters")

	// ErrDescriptionTooLong is returned when a description exceeds 1000 characters.
	ErrDescriptionTooLong = errors.New("description exceeds 1000 characters")
)
