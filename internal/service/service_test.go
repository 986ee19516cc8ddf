package service

import (
	"context"
	"testing"

	"noteshare/internal/domain"
	"noteshare/internal/repository/sqlite"
)

func newTestServices(t *testing.T, name string) (UserService, NoteService) {
	t.Helper()
	db, err := sqlite.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	userRepo := sqlite.NewUserRepository(db)
	noteRepo := sqlite.NewNoteRepository(db)
	if err := userRepo.Init(ctx); err != nil {
		t.Fatalf("init users: %v", err)
	}
	if err := noteRepo.Init(ctx); err != nil {
		t.Fatalf("init notes: %v", err)
	}
	return NewUserService(userRepo), NewNoteService(noteRepo)
}

func mustRegister(t *testing.T, users UserService, username, email, password string) *domain.User {
	t.Helper()
	user, err := users.Register(context.Background(), username, email, password)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}
