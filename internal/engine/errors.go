package engine

import "errors"

var (
	// ErrInvalidSpace is returned by ReloadConfiguration when the space fails validation.
	ErrInvalidSpace = errors.New("engine: invalid space configuration")

	// ErrCoordinatorStopped is returned when a trigger is sent after Run has exited.
	ErrCoordinatorStopped = errors.New("engine: coordinator stopped")
)
