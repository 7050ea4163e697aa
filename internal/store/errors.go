package store

import "errors"

var (
	// ErrNotAStore is returned when a location has no readable key-id
	// marker and therefore is not a password store.
	ErrNotAStore = errors.New("not a password store")
	// ErrAlreadyExists is returned when init targets an existing location
	// or add targets an existing entry.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotFound is returned when an entry does not exist.
	ErrNotFound = errors.New("no such entry")
	// ErrCorruptEntry is returned when a decrypted entry cannot be parsed.
	ErrCorruptEntry = errors.New("corrupt entry")
	// ErrInvalidName is returned for group or entry names that cannot be
	// used as file names.
	ErrInvalidName = errors.New("invalid name")
)
