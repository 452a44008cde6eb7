package repository

import "errors"

// Typed sentinel errors. Callers branch on these instead of swallowing
// database failures wholesale; anything not wrapped in one of them is a
// transport-level failure.
var (
	// ErrNotFound marks a missing target (item, user, comment). Vote and
	// comment operations on a missing item leave the store untouched.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate marks a uniqueness violation (registration, follow).
	ErrDuplicate = errors.New("already exists")
	// ErrForbidden marks an edit or delete by someone other than the author.
	ErrForbidden = errors.New("not the author")
	// ErrCrossForum marks a reply whose parent belongs to another
	// (target, kind) forum.
	ErrCrossForum = errors.New("parent comment belongs to a different thread")
)
