package command

import "errors"

var (
	// ErrUnsupportedCommand is returned for a command outside the vocabulary.
	ErrUnsupportedCommand = errors.New("command: unsupported")

	// ErrInvalidCommand is returned when a target or parameter is missing or invalid.
	ErrInvalidCommand = errors.New("command: invalid request")
)
