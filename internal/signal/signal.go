// Package signal classifies raw external entity states.
//
// All presence and mode detection in Heima is derived from a single read
// primitive (Reader) plus the active-state vocabulary defined here.
package signal

import (
	"strconv"
	"strings"
)

// Reader returns the current state string of an external entity.
// The boolean is false when the entity is unknown or unreadable.
type Reader interface {
	ReadState(entityID string) (string, bool)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(entityID string) (string, bool)

// ReadState implements Reader.
func (f ReaderFunc) ReadState(entityID string) (string, bool) {
	return f(entityID)
}

var activeStates = map[string]struct{}{
	"on":       {},
	"home":     {},
	"open":     {},
	"occupied": {},
	"detected": {},
	"true":     {},
	"1":        {},
}

// IsActive reports whether a raw state counts as active: a member of the
// vocabulary (case-insensitive) or a number greater than zero.
func IsActive(state string) bool {
	if _, ok := activeStates[strings.ToLower(state)]; ok {
		return true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(state), 64)
	return err == nil && v > 0
}

// Active reads entityID and classifies it. Missing entities are inactive.
func Active(r Reader, entityID string) bool {
	if entityID == "" {
		return false
	}
	state, ok := r.ReadState(entityID)
	return ok && IsActive(state)
}

// AnyActive reports whether at least one of entityIDs is active.
func AnyActive(r Reader, entityIDs ...string) bool {
	for _, id := range entityIDs {
		if Active(r, id) {
			return true
		}
	}
	return false
}

// CountActive returns how many of entityIDs are active.
func CountActive(r Reader, entityIDs []string) int {
	n := 0
	for _, id := range entityIDs {
		if Active(r, id) {
			n++
		}
	}
	return n
}
