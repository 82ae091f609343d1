package engine

import "context"

// StateProvider reads the current state of an external entity.
// The boolean is false when the entity does not exist.
type StateProvider interface {
	ReadState(entityID string) (string, bool)
}

// Actuator issues scene activations to the external system.
// Calls are fire-and-forget: a nil error means the command was handed off.
type Actuator interface {
	ActivateScene(ctx context.Context, sceneEntityID string) error
}

// Observer receives the outcome of every cycle and every emitted event.
// Observers run after the engine lock is released and must not block for long.
type Observer interface {
	OnCycle(ctx context.Context, c Cycle)
	OnEvent(ctx context.Context, ev Event)
}

// Logger defines the logging interface used by the engine.
// *logging.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
