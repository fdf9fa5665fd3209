// Package entity defines the domain entities for the post feature.
package entity

import "time"

// Post is a piece of content published to a game category's feed.
// Author references the user's username rather than their ID, matching
// the feed's display needs (a denormalization carried over from the
// stored document shape).
type Post struct {
	// ID is the opaque unique identifier for the post (UUID).
	ID string `gorm:"primaryKey;size:36" json:"id"`

	// Title is the post headline.
	Title string `gorm:"size:255;not null" json:"title"`

	// Author is the username of the posting user.
	Author string `gorm:"index;size:64;not null" json:"author"`

	// Image is an optional reference to an attached image.
	Image string `gorm:"size:512" json:"image"`

	// Body is the post's text content.
	Body string `gorm:"type:text" json:"textArea"`

	// GameCategory groups posts into per-game feeds.
	GameCategory string `gorm:"index;size:64" json:"gameCategory"`

	// CreatedAt is the publication timestamp.
	CreatedAt time.Time `json:"time"`

	UpdatedAt time.Time `json:"-"`
}
