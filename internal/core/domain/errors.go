package domain

import "errors"

var (
	// ErrMissingCredentials is returned when username or password is empty.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrInvalidCredentials is returned when neither store matches. It does not
	// say whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrStoreUnavailable wraps any failure of a credential store lookup.
	ErrStoreUnavailable = errors.New("credential store unavailable")

	ErrSessionNotFound = errors.New("session not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrInvalidRole     = errors.New("invalid role")
)
