package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"noteshare/internal/auth"
	"noteshare/internal/domain"
	"noteshare/internal/repository"
)

// NoteService coordinates note operations and enforces the access policy.
// A nil caller means an anonymous request.
type NoteService interface {
	CreateNote(ctx context.Context, owner *domain.User, title, body string) (*domain.Note, error)
	GetNote(ctx context.Context, caller *domain.User, id int64) (*domain.Note, error)
	ListNotes(ctx context.Context, owner *domain.User) ([]domain.Note, error)
	UpdateNote(ctx context.Context, caller *domain.User, id int64, title, body *string) (*domain.Note, error)
	DeleteNote(ctx context.Context, caller *domain.User, id int64) error
	ShareNote(ctx context.Context, caller *domain.User, id int64, isPublic bool) (*domain.Note, error)
	ListPublicNotes(ctx context.Context) ([]domain.PublicNote, error)
	GetSharedNote(ctx context.Context, id int64) (*domain.PublicNote, error)
}

type noteService struct {
	notes repository.NoteRepository
}

func NewNoteService(notes repository.NoteRepository) NoteService {
	return &noteService{notes: notes}
}

func (s *noteService) CreateNote(ctx context.Context, owner *domain.User, title, body string) (*domain.Note, error) {
	if owner == nil {
		return nil, ErrForbidden
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	note := &domain.Note{
		Title:   title,
		Body:    body,
		OwnerID: owner.ID,
	}
	if _, err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

func (s *noteService) GetNote(ctx context.Context, caller *domain.User, id int64) (*domain.Note, error) {
	note, err := s.loadNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanReadNote(note, caller) {
		return nil, ErrForbidden
	}
	return note, nil
}

func (s *noteService) ListNotes(ctx context.Context, owner *domain.User) ([]domain.Note, error) {
	if owner == nil {
		return nil, ErrForbidden
	}
	notes, err := s.notes.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (s *noteService) UpdateNote(ctx context.Context, caller *domain.User, id int64, title, body *string) (*domain.Note, error) {
	note, err := s.loadNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanWriteNote(note, caller) {
		return nil, ErrForbidden
	}

	newTitle := note.Title
	newBody := note.Body
	if title != nil {
		newTitle = strings.TrimSpace(*title)
		if newTitle == "" {
			return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
	}
	if body != nil {
		newBody = *body
	}

	if err := s.notes.UpdateContent(ctx, id, newTitle, newBody); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return s.loadNote(ctx, id)
}

func (s *noteService) DeleteNote(ctx context.Context, caller *domain.User, id int64) error {
	note, err := s.loadNote(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanWriteNote(note, caller) {
		return ErrForbidden
	}
	if err := s.notes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// ShareNote flips the note's visibility. The transition is idempotent:
// setting the current value again is a no-op except that updated_at still
// advances.
func (s *noteService) ShareNote(ctx context.Context, caller *domain.User, id int64, isPublic bool) (*domain.Note, error) {
	note, err := s.loadNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanWriteNote(note, caller) {
		return nil, ErrForbidden
	}
	if err := s.notes.UpdateVisibility(ctx, id, isPublic); err != nil {
		return nil, fmt.Errorf("update note visibility: %w", err)
	}
	return s.loadNote(ctx, id)
}

func (s *noteService) ListPublicNotes(ctx context.Context) ([]domain.PublicNote, error) {
	notes, err := s.notes.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("list public notes: %w", err)
	}
	return notes, nil
}

func (s *noteService) GetSharedNote(ctx context.Context, id int64) (*domain.PublicNote, error) {
	note, err := s.notes.GetPublicByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("lookup shared note: %w", err)
	}
	return note, nil
}

func (s *noteService) loadNote(ctx context.Context, id int64) (*domain.Note, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("lookup note: %w", err)
	}
	return note, nil
}
