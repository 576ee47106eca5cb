package service

import "errors"

var (
	// ErrValidation marks input the caller should have rejected.
	ErrValidation = errors.New("validation failed")
	// ErrStore wraps local persistence failures.
	ErrStore = errors.New("student store failure")
)
