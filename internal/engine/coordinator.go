package engine

import (
	"context"
	"sync"

	"github.com/nerrad567/heima-core/internal/space"
)

// Trigger reasons.
const (
	ReasonInitialize  = "initialize"
	ReasonReload      = "reload"
	ReasonRequest     = "request"
	ReasonStateChange = "state_change"
)

const defaultQueueSize = 32

// Coordinator serialises evaluation triggers onto one goroutine.
//
// Triggers are queued on a buffered channel. When the queue is full the
// trigger is dropped: a pending cycle will read the latest state anyway.
type Coordinator struct {
	engine   *Engine
	logger   Logger
	triggers chan string

	mu      sync.RWMutex
	tracked map[string]struct{}
	stopped bool
}

// NewCoordinator creates a coordinator for e. queueSize <= 0 selects the default.
func NewCoordinator(e *Engine, queueSize int, logger Logger) *Coordinator {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Coordinator{
		engine:   e,
		logger:   logger,
		triggers: make(chan string, queueSize),
		tracked:  e.TrackedEntityIDs(),
	}
}

// Start initialises the engine and queues the first evaluation.
func (c *Coordinator) Start(ctx context.Context) error {
	c.engine.Initialize(ctx)
	c.refreshTracked()
	return c.Request(ReasonInitialize)
}

// Run evaluates queued triggers until ctx is cancelled.
func (c *Coordinator) Run(ctx context.Context) error {
	defer func() {
		c.mu.Lock()
		c.stopped = true
		c.mu.Unlock()
		c.engine.Shutdown(context.Background())
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case reason := <-c.triggers:
			c.engine.Evaluate(ctx, reason)
		}
	}
}

// Request queues an evaluation. It never blocks.
func (c *Coordinator) Request(reason string) error {
	c.mu.RLock()
	stopped := c.stopped
	c.mu.RUnlock()
	if stopped {
		return ErrCoordinatorStopped
	}

	select {
	case c.triggers <- reason:
	default:
		c.logger.Debug("evaluation queue full, trigger coalesced", "reason", reason)
	}
	return nil
}

// EntityChanged queues an evaluation if entityID is tracked.
// It reports whether the entity was tracked.
func (c *Coordinator) EntityChanged(entityID string) bool {
	c.mu.RLock()
	_, ok := c.tracked[entityID]
	c.mu.RUnlock()
	if !ok {
		return false
	}
	if err := c.Request(ReasonStateChange + ":" + entityID); err != nil {
		c.logger.Debug("state change ignored", "entity_id", entityID, "error", err)
	}
	return true
}

// Reload applies a new configuration and queues an evaluation.
func (c *Coordinator) Reload(ctx context.Context, sp *space.Space, opts Options) error {
	if err := c.engine.ReloadConfiguration(ctx, sp, opts); err != nil {
		return err
	}
	c.refreshTracked()
	return c.Request(ReasonReload)
}

// Tracked returns a copy of the tracked entity set.
func (c *Coordinator) Tracked() map[string]struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]struct{}, len(c.tracked))
	for id := range c.tracked {
		out[id] = struct{}{}
	}
	return out
}

func (c *Coordinator) refreshTracked() {
	ids := c.engine.TrackedEntityIDs()
	c.mu.Lock()
	c.tracked = ids
	c.mu.Unlock()
}
