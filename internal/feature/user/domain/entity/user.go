// Package entity defines the domain entities for the user feature.
package entity

import "time"

// IDList is a set of user IDs stored as a JSON column. Order is
// insertion order; membership is what matters.
type IDList []string

// Contains reports whether the list holds the given ID.
func (l IDList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Add appends the ID if it is not already present.
func (l *IDList) Add(id string) {
	if l.Contains(id) {
		return
	}
	*l = append(*l, id)
}

// Remove deletes the ID from the list if present.
func (l *IDList) Remove(id string) {
	for i, v := range *l {
		if v == id {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return
		}
	}
}

// User represents a registered member of the social gaming platform.
// The four edge lists carry the relationship graph: pending friend
// requests are always mirrored (A in B.ReceivedFriends iff B in
// A.RequestedFriends), confirmed friendships are always mirrored, and a
// pair is never both pending and friends. Follows are unidirectional.
type User struct {
	// ID is the opaque unique identifier for the user (UUID).
	ID string `gorm:"primaryKey;size:36" json:"id"`

	// Email is the user's email address. Unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`

	// Username is the unique public handle used to address the user.
	Username string `gorm:"uniqueIndex;size:64;not null" json:"username"`

	// Name is the display name shown to other users.
	Name string `gorm:"size:255;not null" json:"name"`

	// Password is the bcrypt hash of the user's password.
	// Plaintext is never stored.
	Password string `gorm:"size:255;not null" json:"-"`

	// About is the free-form profile text.
	About string `gorm:"size:2048" json:"about"`

	// RequestedFriends holds IDs of users this user has sent a pending
	// friend request to.
	RequestedFriends IDList `gorm:"serializer:json" json:"requestedFriends"`

	// ReceivedFriends holds IDs of users with a pending request to this
	// user.
	ReceivedFriends IDList `gorm:"serializer:json" json:"receivedFriends"`

	// Friends holds IDs of confirmed friends.
	Friends IDList `gorm:"serializer:json" json:"friends"`

	// Follows holds IDs of users this user follows. No reciprocity is
	// required.
	Follows IDList `gorm:"serializer:json" json:"follows"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
