package bridge

import "errors"

var (
	// ErrInvalidPayload is returned for a message that cannot be decoded.
	ErrInvalidPayload = errors.New("bridge: invalid payload")

	// ErrNotConnected is returned when publishing without a broker link.
	ErrNotConnected = errors.New("bridge: mqtt not connected")
)
