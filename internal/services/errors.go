package services

import "errors"

var (
	// ErrBadCreds covers both an unknown email and a wrong password.
	ErrBadCreds = errors.New("invalid credentials")
	// ErrCategoryNotFound is returned for unknown and inactive categories alike.
	ErrCategoryNotFound = errors.New("category not found")
)
