package space

import "errors"

var (
	// ErrInvalidID is returned when a slug or room/zone id is malformed.
	ErrInvalidID = errors.New("space: invalid identifier")

	// ErrReservedPrefix is returned when an identifier uses the heima_ namespace.
	ErrReservedPrefix = errors.New("space: identifier uses reserved prefix")

	// ErrDuplicateID is returned when two entries in one collection share an id.
	ErrDuplicateID = errors.New("space: duplicate identifier")

	// ErrMissingField is returned when a field required by the entry's mode is empty.
	ErrMissingField = errors.New("space: required field missing")

	// ErrUnknownRoom is returned when a zone or lighting room references an undeclared room.
	ErrUnknownRoom = errors.New("space: unknown room")

	// ErrInvalidThreshold is returned when a quorum threshold is below one
	// or exceeds the number of sources.
	ErrInvalidThreshold = errors.New("space: invalid quorum threshold")

	// ErrInvalidWeight is returned when the anonymous presence weight is below one.
	ErrInvalidWeight = errors.New("space: invalid anonymous weight")
)
