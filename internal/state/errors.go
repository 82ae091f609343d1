package state

import "errors"

var (
	// ErrUnknownKey is returned when a key is not described by the registry.
	ErrUnknownKey = errors.New("state: unknown key")

	// ErrKindMismatch is returned when a key is written as the wrong kind.
	ErrKindMismatch = errors.New("state: kind mismatch")

	// ErrInvalidOption is returned when a select value is not one of its options.
	ErrInvalidOption = errors.New("state: invalid select option")
)
