package state

import (
	"fmt"
	"slices"
	"sync"
)

// Store is the engine-owned key-value store of canonical facts.
type Store struct {
	mu       sync.RWMutex
	registry *Registry
	binary   map[string]bool
	sensor   map[string]any
	selects  map[string]string
}

// Values is a point-in-time copy of the store contents.
type Values struct {
	Binary map[string]bool   `json:"binary"`
	Sensor map[string]any    `json:"sensor"`
	Select map[string]string `json:"select"`
}

// NewStore creates an empty store with an empty registry.
func NewStore() *Store {
	return &Store{
		registry: &Registry{index: make(map[string]int)},
		binary:   make(map[string]bool),
		sensor:   make(map[string]any),
		selects:  make(map[string]string),
	}
}

// Reseed replaces the registry and resets every fact to its default.
// Select values that are still one of their key's options survive.
func (s *Store) Reseed(reg *Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	binary := make(map[string]bool)
	sensor := make(map[string]any)
	selects := make(map[string]string)

	for _, d := range reg.descriptors {
		switch d.Kind {
		case KindBinary:
			binary[d.Key] = false
		case KindSensor:
			sensor[d.Key] = d.Default
		case KindSelect:
			if prev, ok := s.selects[d.Key]; ok && slices.Contains(d.Options, prev) {
				selects[d.Key] = prev
			} else {
				selects[d.Key] = d.Options[0]
			}
		}
	}

	s.registry = reg
	s.binary = binary
	s.sensor = sensor
	s.selects = selects
}

// Registry returns the registry the store was last seeded from.
func (s *Store) Registry() *Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

// Has reports whether key is a seeded fact of any kind.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.registry.index[key]
	return ok
}

// Binary returns a binary fact; missing keys read as false.
func (s *Store) Binary(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.binary[key]
}

// SetBinary writes a binary fact.
func (s *Store) SetBinary(key string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.binary[key] = v
}

// Sensor returns a sensor fact.
func (s *Store) Sensor(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.sensor[key]
	return v, ok
}

// SetSensor writes a sensor fact.
func (s *Store) SetSensor(key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sensor[key] = v
}

// Select returns a select value.
func (s *Store) Select(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.selects[key]
	return v, ok
}

// SetSelect writes a select value after checking it against the
// descriptor's options.
func (s *Store) SetSelect(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.registry.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if d.Kind != KindSelect {
		return fmt.Errorf("%w: %s is %s", ErrKindMismatch, key, d.Kind)
	}
	if !slices.Contains(d.Options, value) {
		return fmt.Errorf("%w: %q for %s", ErrInvalidOption, value, key)
	}
	s.selects[key] = value
	return nil
}

// SetDeclaredBinary writes a binary fact that the registry describes.
// It is the setter used by commands such as a room lighting hold.
func (s *Store) SetDeclaredBinary(key string, v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.registry.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if d.Kind != KindBinary {
		return fmt.Errorf("%w: %s is %s", ErrKindMismatch, key, d.Kind)
	}
	s.binary[key] = v
	return nil
}

// Values copies out the whole store.
func (s *Store) Values() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := Values{
		Binary: make(map[string]bool, len(s.binary)),
		Sensor: make(map[string]any, len(s.sensor)),
		Select: make(map[string]string, len(s.selects)),
	}
	for k, b := range s.binary {
		v.Binary[k] = b
	}
	for k, x := range s.sensor {
		v.Sensor[k] = x
	}
	for k, x := range s.selects {
		v.Select[k] = x
	}
	return v
}
