// Package usecase implements the friend-relationship state machine.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when either side of a relationship
	// cannot be found.
	ErrUserNotFound = errors.New("other user does not exist")

	// ErrSelfRelation is returned when a user targets themselves.
	ErrSelfRelation = errors.New("cannot create a relationship with yourself")

	// ErrAlreadyRequested is returned when a request would duplicate a
	// pending request in either direction.
	ErrAlreadyRequested = errors.New("a friend request is already pending between these users")

	// ErrAlreadyFriends is returned when the pair is already confirmed.
	ErrAlreadyFriends = errors.New("users are already friends")

	// ErrNoPendingRequest is returned when accept/reject finds no
	// pending request from the named user.
	ErrNoPendingRequest = errors.New("no pending friend request from this user")

	// ErrNotFriends is returned when unfriend finds no confirmed edge.
	ErrNotFriends = errors.New("users are not friends")
)
