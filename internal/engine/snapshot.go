package engine

import (
	"maps"
	"slices"
	"time"

	"github.com/nerrad567/heima-core/internal/lighting"
	"github.com/nerrad567/heima-core/internal/policy"
)

// DecisionSnapshot is the immutable outcome of one evaluation cycle.
type DecisionSnapshot struct {
	ID               string                     `json:"snapshot_id"`
	Timestamp        time.Time                  `json:"ts"`
	HouseState       policy.HouseState          `json:"house_state"`
	HouseStateReason policy.Reason              `json:"house_state_reason"`
	AnyoneHome       bool                       `json:"anyone_home"`
	PeopleCount      int                        `json:"people_count"`
	PeopleHome       []string                   `json:"people_home"`
	OccupiedRooms    []string                   `json:"occupied_rooms"`
	LightingIntents  map[string]lighting.Intent `json:"lighting_intents"`
	HeatingIntent    string                     `json:"heating_intent"`
	SecurityState    string                     `json:"security_state"`
	Notes            string                     `json:"notes"`
}

// Clone returns a deep copy so callers cannot alias the engine's copy.
func (s DecisionSnapshot) Clone() DecisionSnapshot {
	s.PeopleHome = slices.Clone(s.PeopleHome)
	s.OccupiedRooms = slices.Clone(s.OccupiedRooms)
	s.LightingIntents = maps.Clone(s.LightingIntents)
	return s
}

// Health is the coarse engine status reported to the API.
type Health struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

// Cycle bundles everything produced by one Evaluate call.
type Cycle struct {
	Reason   string           `json:"reason"`
	Snapshot DecisionSnapshot `json:"snapshot"`
	Plan     ApplyPlan        `json:"plan"`
	Report   ExecutionReport  `json:"report"`
	Duration time.Duration    `json:"duration"`
}
