// Package repository defines error types that are reused across multiple
// repositories.  Handlers translate them into HTTP status codes.
package repository

import "errors"

// ErrNoteNotFound is returned when a note does not exist or belongs to a
// different owner.  The two cases are deliberately indistinguishable so a
// caller cannot probe for other owners' note ids.
var ErrNoteNotFound = errors.New("note not found or access denied")

// ErrRecordNotFound is the owner-scoped equivalent for healthcare and food
// diet records.  Unscoped deletes never return it.
var ErrRecordNotFound = errors.New("record not found or access denied")
