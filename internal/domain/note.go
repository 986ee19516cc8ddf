package domain

import "time"

// Note is a user-owned text note. The owner reference is set at creation
// and never changes; IsPublic starts false and is toggled only through an
// explicit share action by the owner.
type Note struct {
	ID        int64
	Title     string
	Body      string
	IsPublic  bool
	OwnerID   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicNote pairs a shared note with its owner's username for the
// public listing and shared-link views.
type PublicNote struct {
	Note
	OwnerUsername string
}
