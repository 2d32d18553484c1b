package repository

import "errors"

var (
	// ErrConflict indicates a write would duplicate a unique username or email.
	ErrConflict = errors.New("repository: user already exists")
	// ErrNotFound indicates a write targeted a row that no longer exists.
	ErrNotFound = errors.New("repository: user not found")
)
