package domain

import "errors"

var (
	// ErrNotFound indicates that no record backs the requested id.
	ErrNotFound = errors.New("not found")

	// ErrPersistence indicates that a storage write failed.
	ErrPersistence = errors.New("persistence failure")

	// ErrNoActor indicates that an operation needed an acting user and the
	// context carried none.
	ErrNoActor = errors.New("no acting user in context")

	// ErrAccessDenied indicates that the acting user lacks the permission
	// guarding a resource.
	ErrAccessDenied = errors.New("access denied")

	// ErrPrintMilestone is raised when a milestone is stringified directly.
	ErrPrintMilestone = errors.New("don't print the milestone, use Name() instead")
)
