package domain

import "errors"

var (
	// ErrStorageUnavailable is logged when the backend is missing, disabled or full
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrCorrupted is logged when a stored value cannot be decoded or fails its schema
	ErrCorrupted = errors.New("stored value corrupted")

	// ErrDuplicateIdentity is returned by signup when the id is taken
	ErrDuplicateIdentity = errors.New("profile already registered")
	// ErrNotFound is returned by login when no registered profile has the id
	ErrNotFound = errors.New("profile not found")
	// ErrInvalidCredential is returned by login on a password mismatch
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrNoCurrentProfile is returned by mutators that need an active profile
	ErrNoCurrentProfile = errors.New("no current profile")
	// ErrInvalidInput is returned when arguments fail validation
	ErrInvalidInput = errors.New("invalid input")
)
