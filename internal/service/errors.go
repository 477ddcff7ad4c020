package service

import "errors"

var (
	// ErrRecordNotConflicted is returned by ResolveConflict when the target
	// record is not in conflict state.
	ErrRecordNotConflicted = errors.New("record is not in conflict state")

	// ErrInvalidResolution is returned for a resolution outside the supported
	// keep_local/keep_server/merge set.
	ErrInvalidResolution = errors.New("invalid conflict resolution")

	// ErrInvalidEntityType is returned for an entity type outside the synced
	// collections.
	ErrInvalidEntityType = errors.New("invalid entity type")
)
