// Package usecase implements the business logic for the user feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by ID or
	// username.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when an account with the given email
	// address already exists.
	ErrEmailTaken = errors.New("an account with this email address already exists")

	// ErrUsernameTaken is returned when an account with the given
	// username already exists.
	ErrUsernameTaken = errors.New("an account with this username already exists")

	// ErrInvalidCredentials is returned when login credentials do not
	// match. It deliberately does not distinguish a missing user from a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid user details provided")
)
