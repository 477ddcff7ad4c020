package store

import "errors"

var (
	// ErrRecordNotFound is returned when a lookup by local or server ID
	// matches no record.
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidEntityType is returned when a caller passes an entity type
	// outside the known collections.
	ErrInvalidEntityType = errors.New("invalid entity type")
)
