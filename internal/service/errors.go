package service

import "errors"

var (
	// ErrInvalidInput marks request-level validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials indicates that provided login credentials are
	// incorrect. It never reveals which field was wrong.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrDuplicateRegistration is returned when the username or email is
	// already taken.
	ErrDuplicateRegistration = errors.New("username or email already registered")
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoteNotFound indicates the requested note does not exist.
	ErrNoteNotFound = errors.New("note not found")
	// ErrForbidden indicates the caller is not allowed to perform the
	// operation on an existing note.
	ErrForbidden = errors.New("not authorized for this note")
)
