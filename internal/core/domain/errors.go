package domain

import "errors"

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("you can only modify your own listings")
	ErrValidation         = errors.New("validation failed")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
