package models

import "errors"

// Domain error taxonomy. Services return these sentinels (possibly wrapped);
// handlers map them to HTTP statuses with errors.Is.
var (
	// ErrDuplicateIdentity is returned when a signup or profile edit collides
	// with an existing username or email. It surfaces from the store's unique
	// constraint at write time; no pre-check is performed.
	ErrDuplicateIdentity = errors.New("username or email already taken")

	// ErrAuthenticationFailure is returned for both an unknown username and a
	// wrong password. Callers must not be able to tell the two apart.
	ErrAuthenticationFailure = errors.New("invalid credentials")

	// ErrNotFound is returned when a lookup by id finds nothing.
	ErrNotFound = errors.New("not found")
)
