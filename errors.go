package hanzilookup

import "errors"

var (
	// ErrInvalidArgument is returned when a caller passes a value outside
	// its documented range, such as a non-positive match limit or a
	// looseness outside [0,1].
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDatasetNotFound is returned when a dataset key has not been loaded
	// into a Library, or when no embedded or on-disk dataset exists for it.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrInvalidDatabase is returned when a reference database fails to
	// decode or violates its structural invariants.
	ErrInvalidDatabase = errors.New("invalid reference database")
)
