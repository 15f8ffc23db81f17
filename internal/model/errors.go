package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a request or resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrExecFailed is returned when a spawned command exits with a non-zero status.
	ErrExecFailed = errors.New("execution failed")
	// ErrMissingVariable is returned when a template references a variable that
	// is not present in the render context.
	ErrMissingVariable = errors.New("missing template variable")
)
