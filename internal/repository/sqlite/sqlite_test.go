package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"noteshare/internal/domain"
)

// openTestDB opens an in-memory database with the full schema applied.
func openTestDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := NewUserRepository(db).Init(ctx); err != nil {
		t.Fatalf("init users: %v", err)
	}
	if err := NewNoteRepository(db).Init(ctx); err != nil {
		t.Fatalf("init notes: %v", err)
	}
	return db
}

func mustCreateUser(t *testing.T, db *sql.DB, username, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: "x",
	}
	if _, err := NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func mustCreateNote(t *testing.T, db *sql.DB, ownerID int64, title, body string) *domain.Note {
	t.Helper()
	note := &domain.Note{
		Title:   title,
		Body:    body,
		OwnerID: ownerID,
	}
	if _, err := NewNoteRepository(db).Create(context.Background(), note); err != nil {
		t.Fatalf("create note %s: %v", title, err)
	}
	return note
}
