package models

import "errors"

// Sentinel errors shared across the repository and service layers.
// Handlers translate these into HTTP status codes with errors.Is.
var (
	// ErrNotFound means the operation target (comment, content path)
	// does not exist. Retrying without changing the target will not
	// succeed.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict means a compare-and-swap content write lost
	// against a newer version of the bucket.
	ErrVersionConflict = errors.New("version conflict")

	// ErrModuleConflict means a module with the same id already
	// exists in the target bucket.
	ErrModuleConflict = errors.New("module id already exists")

	// ErrTopicConflict means a topic with the same id already exists
	// in the target module.
	ErrTopicConflict = errors.New("topic id already exists")
)
