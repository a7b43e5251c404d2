package services

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidDeadline   = errors.New("deadline must be today or a future date")
	ErrValidation        = errors.New("validation failed")
	ErrIncompleteProfile = errors.New("required user fields are missing")
)
