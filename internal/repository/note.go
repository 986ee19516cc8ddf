package repository

import (
	"context"

	"noteshare/internal/domain"
)

// NoteRepository exposes persistence operations for Note aggregates.
// Every mutation refreshes the note's updated_at, including visibility
// changes that leave the flag untouched.
type NoteRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, note *domain.Note) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Note, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Note, error)
	// ListPublic returns all public notes joined with their owner's
	// username, most recently updated first.
	ListPublic(ctx context.Context) ([]domain.PublicNote, error)
	// GetPublicByID returns a public note with its owner's username;
	// private and missing notes both yield ErrNotFound.
	GetPublicByID(ctx context.Context, id int64) (*domain.PublicNote, error)
	UpdateContent(ctx context.Context, id int64, title, body string) error
	UpdateVisibility(ctx context.Context, id int64, isPublic bool) error
	Delete(ctx context.Context, id int64) error
}
