package domain

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is returned for any purchase order status change other than the next linear step.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrConcurrentUpdate is returned when another writer holds the record.
	ErrConcurrentUpdate = errors.New("concurrent update in progress")
	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("validation failed")
)
