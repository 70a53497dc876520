package store

import "errors"

// Sentinel errors returned (optionally wrapped) by every store implementation.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)
