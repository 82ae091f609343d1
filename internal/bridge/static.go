package bridge

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StaticProvider serves a fixed map of entity states.
type StaticProvider map[string]string

// ReadState implements engine.StateProvider.
func (p StaticProvider) ReadState(entityID string) (string, bool) {
	v, ok := p[entityID]
	return v, ok
}

// LoadStates reads a YAML mapping of entity id to state. Scalars of any
// type are accepted and kept in their textual form.
func LoadStates(path string) (StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading states file: %w", err)
	}
	return ParseStates(data)
}

// ParseStates decodes a YAML states document.
func ParseStates(data []byte) (StaticProvider, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing states: %w", err)
	}
	out := make(StaticProvider, len(doc))
	for id, node := range doc {
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: state for %s must be a scalar", ErrInvalidPayload, id)
		}
		out[id] = node.Value
	}
	return out, nil
}
