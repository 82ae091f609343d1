package state

import (
	"strings"

	"github.com/nerrad567/heima-core/internal/lighting"
	"github.com/nerrad567/heima-core/internal/space"
)

// Kind is the type of a canonical fact.
type Kind string

// Fact kinds.
const (
	KindBinary Kind = "binary"
	KindSensor Kind = "sensor"
	KindSelect Kind = "select"
)

// Select option sets.
var (
	HeatingIntentOptions  = []string{"auto", "eco", "comfort", "preheat", "off"}
	SecurityIntentOptions = []string{"auto", "armed_away", "armed_home", "disarmed"}
	OverrideOptions       = []string{"auto", "force_home", "force_away"}
)

// Override select values.
const (
	OverrideAuto      = "auto"
	OverrideForceHome = "force_home"
	OverrideForceAway = "force_away"
)

// Descriptor describes one canonical fact.
type Descriptor struct {
	Key     string   `json:"key"`
	Kind    Kind     `json:"kind"`
	Name    string   `json:"name"`
	Options []string `json:"options,omitempty"`
	Default any      `json:"default"`
}

// Registry is the ordered descriptor list derived from one space configuration.
type Registry struct {
	descriptors []Descriptor
	index       map[string]int
}

// BuildRegistry derives every canonical fact the space calls for.
func BuildRegistry(sp *space.Space) *Registry {
	r := &Registry{index: make(map[string]int)}

	for _, p := range sp.People {
		label := labelFor(p.DisplayName, p.Slug)
		r.binary(PersonHome(p.Slug), "Person "+label+" Home")
		r.sensor(PersonConfidence(p.Slug), "Person "+label+" Confidence", 0)
		r.sensor(PersonSource(p.Slug), "Person "+label+" Source", "")
		if p.EnableOverride || p.PresenceMethod == space.MethodManual {
			r.selection(PersonOverride(p.Slug), "Person "+label+" Override", OverrideOptions)
		}
	}

	r.binary(KeyAnyoneHome, "Anyone Home")
	r.sensor(KeyPeopleCount, "People Count", 0)
	r.sensor(KeyPeopleHomeList, "People Home List", "")

	if sp.Anonymous.Enabled {
		r.binary(KeyAnonymousPresence, "Anonymous Presence")
		r.sensor(KeyAnonymousConfidence, "Anonymous Confidence", 0)
		r.sensor(KeyAnonymousSource, "Anonymous Source", "")
	}

	for _, room := range sp.Rooms {
		label := labelFor(room.DisplayName, room.ID)
		r.binary(RoomOccupied(room.ID), "Occupancy "+label)
		r.sensor(RoomSource(room.ID), "Occupancy "+label+" Source", "")
		r.sensor(RoomLastChange(room.ID), "Occupancy "+label+" Last Change", "")
	}

	for _, z := range sp.LightingZones {
		r.binary(ZoneOccupied(z.ID), "Occupancy Zone "+labelFor(z.DisplayName, z.ID))
	}

	r.sensor(KeyHouseState, "House State", "unknown")
	r.sensor(KeyHouseStateReason, "House State Reason", "")

	for _, z := range sp.LightingZones {
		r.selection(LightingIntent(z.ID), "Lighting Intent "+labelFor(z.DisplayName, z.ID), lighting.Options())
	}
	for _, lr := range sp.LightingRooms {
		if lr.ManualHoldEnabled() {
			r.binary(LightingHold(lr.RoomID), "Lighting Hold "+labelFor("", lr.RoomID))
		}
	}

	if sp.Heating.Enabled {
		r.selection(KeyHeatingIntent, "Heating Intent", HeatingIntentOptions)
		r.binary(KeyHeatingManualHold, "Heating Manual Hold")
		r.binary(KeyHeatingApplyingGuard, "Heating Applying Guard")
	}

	if sp.Security.Enabled {
		r.selection(KeySecurityIntent, "Security Intent", SecurityIntentOptions)
		r.sensor(KeySecurityState, "Security State", "unknown")
		r.sensor(KeySecurityReason, "Security Reason", "")
	}

	r.sensor(KeyLastEvent, "Last Event", "")
	r.sensor(KeyEventStats, "Event Stats", "{}")

	return r
}

// Descriptors returns a copy of the descriptor list in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Lookup returns the descriptor for key.
func (r *Registry) Lookup(key string) (Descriptor, bool) {
	i, ok := r.index[key]
	if !ok {
		return Descriptor{}, false
	}
	return r.descriptors[i], true
}

// Len returns the number of descriptors.
func (r *Registry) Len() int {
	return len(r.descriptors)
}

func (r *Registry) add(d Descriptor) {
	if _, dup := r.index[d.Key]; dup {
		return
	}
	d.Name = "Heima " + d.Name
	r.index[d.Key] = len(r.descriptors)
	r.descriptors = append(r.descriptors, d)
}

func (r *Registry) binary(key, name string) {
	r.add(Descriptor{Key: key, Kind: KindBinary, Name: name, Default: false})
}

func (r *Registry) sensor(key, name string, def any) {
	r.add(Descriptor{Key: key, Kind: KindSensor, Name: name, Default: def})
}

func (r *Registry) selection(key, name string, options []string) {
	r.add(Descriptor{Key: key, Kind: KindSelect, Name: name, Options: options, Default: options[0]})
}

// labelFor turns "living_room" into "Living Room" unless a display name is set.
func labelFor(display, id string) string {
	if display != "" && display != id {
		return display
	}
	if id == "" {
		return "Unknown"
	}
	words := strings.Split(id, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
