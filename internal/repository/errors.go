package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist or does not
	// belong to the requesting user.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert would violate a uniqueness
	// constraint.
	ErrDuplicate = errors.New("record already exists")
)
