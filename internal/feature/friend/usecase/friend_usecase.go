package usecase

import (
	"context"
	"fmt"

	"social_backend/internal/feature/user/domain/entity"
)

// PairState is the relationship state of an ordered user pair (self,
// other), computed from the two records' edge lists.
type PairState int

const (
	// StateNone means no edge exists in either direction.
	StateNone PairState = iota
	// StateRequested means self has a pending request to other.
	StateRequested
	// StateReceived means other has a pending request to self.
	StateReceived
	// StateFriends means the pair holds a confirmed mutual edge.
	StateFriends
)

// String returns the state name for logging.
func (s PairState) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateReceived:
		return "received"
	case StateFriends:
		return "friends"
	default:
		return "none"
	}
}

// UserRepository is the slice of the user store the state machine needs.
// SavePair must persist both records in a single transactional unit so
// the mirror invariant survives a crash between the two writes.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	SavePair(ctx context.Context, a, b *entity.User) error
}

// friendUsecase drives the friend-request lifecycle over two user
// records. Every transition re-reads both records, checks its guard
// against the fresh state and commits both sides together.
type friendUsecase struct {
	users UserRepository
}

// NewFriendUsecase creates a new friendUsecase instance.
func NewFriendUsecase(users UserRepository) *friendUsecase {
	return &friendUsecase{users: users}
}

// stateOf computes the pair state from self's perspective. The edge
// lists are mirrored by construction, so reading one side suffices;
// reading self keeps the guard and the mutation on the same record.
func stateOf(self, other *entity.User) PairState {
	switch {
	case self.Friends.Contains(other.ID):
		return StateFriends
	case self.RequestedFriends.Contains(other.ID):
		return StateRequested
	case self.ReceivedFriends.Contains(other.ID):
		return StateReceived
	default:
		return StateNone
	}
}

// loadPair resolves the acting user by ID and the other user by
// username, rejecting self-targeting.
func (u *friendUsecase) loadPair(ctx context.Context, selfID, otherUsername string) (*entity.User, *entity.User, error) {
	self, err := u.users.FindByID(ctx, selfID)
	if err != nil {
		return nil, nil, err
	}
	other, err := u.users.FindByUsername(ctx, otherUsername)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrUserNotFound, otherUsername)
	}
	if self.ID == other.ID {
		return nil, nil, ErrSelfRelation
	}
	return self, other, nil
}

// Request creates a pending friend request from the acting user to the
// named user.
//
// Precondition: state NONE — no pending request in either direction and
// no confirmed friendship.
// Effect: self.requestedFriends += other, other.receivedFriends += self.
func (u *friendUsecase) Request(ctx context.Context, selfID, otherUsername string) error {
	self, other, err := u.loadPair(ctx, selfID, otherUsername)
	if err != nil {
		return err
	}

	switch stateOf(self, other) {
	case StateFriends:
		return ErrAlreadyFriends
	case StateRequested, StateReceived:
		return ErrAlreadyRequested
	}

	self.RequestedFriends.Add(other.ID)
	other.ReceivedFriends.Add(self.ID)
	return u.users.SavePair(ctx, self, other)
}

// Accept confirms a pending request that the named user sent to the
// acting user.
//
// Precondition: the other user has requested the acting user.
// Effect: both pending edges are cleared and both friends lists gain
// the counterpart's ID.
func (u *friendUsecase) Accept(ctx context.Context, selfID, otherUsername string) error {
	self, other, err := u.loadPair(ctx, selfID, otherUsername)
	if err != nil {
		return err
	}

	switch stateOf(self, other) {
	case StateFriends:
		return ErrAlreadyFriends
	case StateNone, StateRequested:
		return ErrNoPendingRequest
	}

	self.ReceivedFriends.Remove(other.ID)
	self.Friends.Add(other.ID)
	other.RequestedFriends.Remove(self.ID)
	other.Friends.Add(self.ID)
	return u.users.SavePair(ctx, self, other)
}

// Reject declines a pending request that the named user sent to the
// acting user, returning the pair to state NONE.
func (u *friendUsecase) Reject(ctx context.Context, selfID, otherUsername string) error {
	self, other, err := u.loadPair(ctx, selfID, otherUsername)
	if err != nil {
		return err
	}

	switch stateOf(self, other) {
	case StateFriends:
		return ErrAlreadyFriends
	case StateNone, StateRequested:
		return ErrNoPendingRequest
	}

	self.ReceivedFriends.Remove(other.ID)
	other.RequestedFriends.Remove(self.ID)
	return u.users.SavePair(ctx, self, other)
}

// Unfriend removes a confirmed friendship in both directions.
//
// Precondition: state FRIENDS.
func (u *friendUsecase) Unfriend(ctx context.Context, selfID, otherUsername string) error {
	self, other, err := u.loadPair(ctx, selfID, otherUsername)
	if err != nil {
		return err
	}

	if stateOf(self, other) != StateFriends {
		return ErrNotFriends
	}

	self.Friends.Remove(other.ID)
	other.Friends.Remove(self.ID)
	return u.users.SavePair(ctx, self, other)
}

// Friends returns the acting user's confirmed friend IDs.
func (u *friendUsecase) Friends(ctx context.Context, selfID string) (entity.IDList, error) {
	self, err := u.users.FindByID(ctx, selfID)
	if err != nil {
		return nil, err
	}
	return self.Friends, nil
}

// Requested returns the IDs of users the acting user has pending
// requests to.
func (u *friendUsecase) Requested(ctx context.Context, selfID string) (entity.IDList, error) {
	self, err := u.users.FindByID(ctx, selfID)
	if err != nil {
		return nil, err
	}
	return self.RequestedFriends, nil
}

// Received returns the IDs of users with pending requests to the acting
// user.
func (u *friendUsecase) Received(ctx context.Context, selfID string) (entity.IDList, error) {
	self, err := u.users.FindByID(ctx, selfID)
	if err != nil {
		return nil, err
	}
	return self.ReceivedFriends, nil
}
