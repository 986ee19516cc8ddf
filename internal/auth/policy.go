package auth

import "noteshare/internal/domain"

// Policy decisions are pure: they look only at the caller (nil means
// anonymous) and the note's ownership and visibility. Distinguishing
// "not found" from "not authorized" is the caller's concern.

// CanReadNote reports whether caller may read the note: the owner always
// can, anyone (including anonymous) can when the note is public.
func CanReadNote(note *domain.Note, caller *domain.User) bool {
	if note == nil {
		return false
	}
	if note.IsPublic {
		return true
	}
	return caller != nil && caller.ID == note.OwnerID
}

// CanWriteNote reports whether caller may mutate the note. Updates,
// deletion and visibility changes are all owner-only.
func CanWriteNote(note *domain.Note, caller *domain.User) bool {
	if note == nil || caller == nil {
		return false
	}
	return caller.ID == note.OwnerID
}
