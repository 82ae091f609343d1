package bridge

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/nerrad567/heima-core/internal/infrastructure/mqtt"
)

// entityPayload is the JSON form of an entity state message. Plain-text
// payloads are taken as the state itself.
type entityPayload struct {
	State string `json:"state"`
}

// StateCache holds the latest state per entity.
type StateCache struct {
	mu     sync.RWMutex
	states map[string]string

	onChange func(entityID string)
	logger   Logger
}

// NewStateCache creates an empty cache. onChange, if set, is called
// outside the lock for every entity whose state changed.
func NewStateCache(onChange func(entityID string)) *StateCache {
	return &StateCache{states: make(map[string]string), onChange: onChange, logger: noopLogger{}}
}

// SetLogger sets the logger.
func (c *StateCache) SetLogger(logger Logger) {
	c.logger = orNoop(logger)
}

// ReadState implements engine.StateProvider.
func (c *StateCache) ReadState(entityID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.states[entityID]
	return v, ok
}

// Set stores a state and reports whether it changed.
func (c *StateCache) Set(entityID, state string) bool {
	c.mu.Lock()
	prev, ok := c.states[entityID]
	changed := !ok || prev != state
	c.states[entityID] = state
	c.mu.Unlock()

	if changed && c.onChange != nil {
		c.onChange(entityID)
	}
	return changed
}

// Delete forgets an entity and reports whether it was known.
func (c *StateCache) Delete(entityID string) bool {
	c.mu.Lock()
	_, ok := c.states[entityID]
	delete(c.states, entityID)
	c.mu.Unlock()

	if ok && c.onChange != nil {
		c.onChange(entityID)
	}
	return ok
}

// Len returns the number of cached entities.
func (c *StateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.states)
}

// Attach subscribes the cache to every mirrored entity state.
func (c *StateCache) Attach(client MQTTClient, qos byte) error {
	topic := mqtt.Topics{}.AllEntityStates()
	if err := client.Subscribe(topic, qos, c.HandleMessage); err != nil {
		return fmt.Errorf("subscribe to entity states: %w", err)
	}
	c.logger.Info("subscribed to entity states", "topic", topic)
	return nil
}

// HandleMessage ingests one entity state message. An empty payload
// (a cleared retained message) removes the entity.
func (c *StateCache) HandleMessage(topic string, payload []byte) error {
	id, ok := mqtt.EntityIDFromTopic(topic)
	if !ok {
		return fmt.Errorf("%w: unexpected topic %s", ErrInvalidPayload, topic)
	}

	raw := strings.TrimSpace(string(payload))
	if raw == "" {
		c.Delete(id)
		return nil
	}

	state := raw
	if strings.HasPrefix(raw, "{") {
		var p entityPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidPayload, id, err)
		}
		state = p.State
	}

	if c.Set(id, state) {
		c.logger.Debug("entity state changed", "entity_id", id, "state", state)
	}
	return nil
}
