// Package usecase implements the business logic for the post feature.
package usecase

import "errors"

var (
	// ErrPostNotFound is returned when a post cannot be found by ID.
	ErrPostNotFound = errors.New("post not found")

	// ErrNotAuthor is returned when the authenticated user does not
	// match the post's author.
	ErrNotAuthor = errors.New("user and post author must match")
)
