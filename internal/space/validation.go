package space

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const maxIDLength = 64

// idRegex matches Home Assistant style slugs: lowercase words joined by underscores.
var idRegex = regexp.MustCompile(`^[a-z0-9]+(?:_[a-z0-9]+)*$`)

// ValidateID checks an identifier's format and namespace.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: identifier cannot be empty", ErrMissingField)
	}
	if strings.HasPrefix(id, ReservedPrefix) {
		return fmt.Errorf("%w: %q", ErrReservedPrefix, id)
	}
	if len(id) > maxIDLength {
		return fmt.Errorf("%w: %q exceeds %d characters", ErrInvalidID, id, maxIDLength)
	}
	if !idRegex.MatchString(id) {
		return fmt.Errorf("%w: %q must be lowercase alphanumeric with underscores", ErrInvalidID, id)
	}
	return nil
}

// checkThreshold rejects a quorum that is below one or larger than its
// source list. An empty list is reported separately.
func checkThreshold(required, sources int) error {
	if required < 1 {
		return fmt.Errorf("%w: required=%d", ErrInvalidThreshold, required)
	}
	if sources > 0 && required > sources {
		return fmt.Errorf("%w: required=%d exceeds %d sources", ErrInvalidThreshold, required, sources)
	}
	return nil
}

// Validate checks the whole space and returns every problem found, joined.
// Call Normalize first so defaults are in place.
func (s *Space) Validate() error {
	var errs []error
	add := func(scope string, err error) {
		errs = append(errs, fmt.Errorf("%s: %w", scope, err))
	}

	seen := make(map[string]bool)
	for i, p := range s.People {
		scope := fmt.Sprintf("people[%d]", i)
		if err := ValidateID(p.Slug); err != nil {
			add(scope, err)
		} else if seen[p.Slug] {
			add(scope, fmt.Errorf("%w: person %q", ErrDuplicateID, p.Slug))
		}
		seen[p.Slug] = true

		switch p.PresenceMethod {
		case MethodHAPerson:
			if p.PersonEntity == "" {
				add(scope, fmt.Errorf("%w: person_entity", ErrMissingField))
			}
		case MethodQuorum:
			if len(p.Sources) == 0 {
				add(scope, fmt.Errorf("%w: sources", ErrMissingField))
			}
			if err := checkThreshold(p.Required, len(p.Sources)); err != nil {
				add(scope, err)
			}
		}
	}

	if s.Anonymous.Enabled {
		if len(s.Anonymous.Sources) == 0 {
			add("anonymous_presence", fmt.Errorf("%w: sources", ErrMissingField))
		}
		if err := checkThreshold(s.Anonymous.Required, len(s.Anonymous.Sources)); err != nil {
			add("anonymous_presence", err)
		}
		if s.Anonymous.Weight < 1 {
			add("anonymous_presence", fmt.Errorf("%w: weight=%d", ErrInvalidWeight, s.Anonymous.Weight))
		}
	}

	rooms := make(map[string]bool)
	for i, r := range s.Rooms {
		scope := fmt.Sprintf("rooms[%d]", i)
		if err := ValidateID(r.ID); err != nil {
			add(scope, err)
		} else if rooms[r.ID] {
			add(scope, fmt.Errorf("%w: room %q", ErrDuplicateID, r.ID))
		}
		rooms[r.ID] = true
		if len(r.Sources) == 0 {
			add(scope, fmt.Errorf("%w: sources", ErrMissingField))
		}
	}

	zones := make(map[string]bool)
	for i, z := range s.LightingZones {
		scope := fmt.Sprintf("lighting_zones[%d]", i)
		if err := ValidateID(z.ID); err != nil {
			add(scope, err)
		} else if zones[z.ID] {
			add(scope, fmt.Errorf("%w: zone %q", ErrDuplicateID, z.ID))
		}
		zones[z.ID] = true
		if len(z.Rooms) == 0 {
			add(scope, fmt.Errorf("%w: rooms", ErrMissingField))
		}
		for _, id := range z.Rooms {
			if !rooms[id] {
				add(scope, fmt.Errorf("%w: %q", ErrUnknownRoom, id))
			}
		}
	}

	bound := make(map[string]bool)
	for i, lr := range s.LightingRooms {
		scope := fmt.Sprintf("lighting_rooms[%d]", i)
		if !rooms[lr.RoomID] {
			add(scope, fmt.Errorf("%w: %q", ErrUnknownRoom, lr.RoomID))
		} else if bound[lr.RoomID] {
			add(scope, fmt.Errorf("%w: lighting room %q", ErrDuplicateID, lr.RoomID))
		}
		bound[lr.RoomID] = true
		if lr.SceneEvening == "" && lr.SceneRelax == "" && lr.SceneNight == "" && lr.SceneOff == "" {
			add(scope, fmt.Errorf("%w: one of scene_evening, scene_relax, scene_night, scene_off", ErrMissingField))
		}
	}

	if s.Security.Enabled && s.Security.StateEntity == "" {
		add("security", fmt.Errorf("%w: state_entity", ErrMissingField))
	}

	return errors.Join(errs...)
}
