package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a user insert or update collides
// with an existing email address.
var ErrDuplicateEmail = errors.New("email already exists")
