package space

import "slices"

// PresenceMethod selects how a person's presence is resolved.
type PresenceMethod string

// Presence methods.
const (
	// MethodHAPerson binds presence to a single person entity whose state is "home".
	MethodHAPerson PresenceMethod = "ha_person"

	// MethodQuorum requires Required of the person's Sources to be active.
	MethodQuorum PresenceMethod = "quorum"

	// MethodManual follows the person's override select only.
	MethodManual PresenceMethod = "manual"
)

// RoomLogic combines a room's occupancy sources.
type RoomLogic string

// Room combination logic.
const (
	LogicAnyOf RoomLogic = "any_of"
	LogicAllOf RoomLogic = "all_of"
)

// ReservedPrefix is the namespace of the canonical state keys.
const ReservedPrefix = "heima_"

// Space is the full configuration of one managed home.
type Space struct {
	People        []Person          `yaml:"people" json:"people"`
	Anonymous     AnonymousPresence `yaml:"anonymous_presence" json:"anonymous_presence"`
	Rooms         []Room            `yaml:"rooms" json:"rooms"`
	LightingZones []LightingZone    `yaml:"lighting_zones" json:"lighting_zones"`
	LightingRooms []LightingRoom    `yaml:"lighting_rooms" json:"lighting_rooms"`
	Heating       Heating           `yaml:"heating" json:"heating"`
	Security      Security          `yaml:"security" json:"security"`
}

// Person is a named occupant.
type Person struct {
	Slug           string         `yaml:"slug" json:"slug"`
	DisplayName    string         `yaml:"display_name" json:"display_name,omitempty"`
	PresenceMethod PresenceMethod `yaml:"presence_method" json:"presence_method"`
	PersonEntity   string         `yaml:"person_entity" json:"person_entity,omitempty"`
	Sources        []string       `yaml:"sources" json:"sources,omitempty"`
	Required       int            `yaml:"required" json:"required"`
	EnableOverride bool           `yaml:"enable_override" json:"enable_override"`
}

// AnonymousPresence is the bucket for occupants who are not tracked by name.
type AnonymousPresence struct {
	Enabled  bool     `yaml:"enabled" json:"enabled"`
	Sources  []string `yaml:"sources" json:"sources,omitempty"`
	Required int      `yaml:"required" json:"required"`
	Weight   int      `yaml:"weight" json:"weight"`
}

// Room is an occupancy area fed by one or more sensors.
type Room struct {
	ID          string    `yaml:"id" json:"id"`
	DisplayName string    `yaml:"display_name" json:"display_name,omitempty"`
	Sources     []string  `yaml:"sources" json:"sources,omitempty"`
	Logic       RoomLogic `yaml:"logic" json:"logic"`
}

// LightingZone groups rooms that share one lighting intent.
type LightingZone struct {
	ID          string   `yaml:"id" json:"id"`
	DisplayName string   `yaml:"display_name" json:"display_name,omitempty"`
	Rooms       []string `yaml:"rooms" json:"rooms"`
}

// LightingRoom binds a room to the scenes used for each intent.
type LightingRoom struct {
	RoomID       string `yaml:"room_id" json:"room_id"`
	SceneEvening string `yaml:"scene_evening" json:"scene_evening,omitempty"`
	SceneRelax   string `yaml:"scene_relax" json:"scene_relax,omitempty"`
	SceneNight   string `yaml:"scene_night" json:"scene_night,omitempty"`
	SceneOff     string `yaml:"scene_off" json:"scene_off,omitempty"`

	// EnableManualHold defaults to true when omitted.
	EnableManualHold *bool `yaml:"enable_manual_hold" json:"enable_manual_hold,omitempty"`
}

// ManualHoldEnabled reports whether the room exposes a manual hold switch.
func (r LightingRoom) ManualHoldEnabled() bool {
	return r.EnableManualHold == nil || *r.EnableManualHold
}

// Heating holds the heating domain options.
type Heating struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Security binds the alarm panel state entity.
type Security struct {
	Enabled     bool   `yaml:"enabled" json:"enabled"`
	StateEntity string `yaml:"state_entity" json:"state_entity,omitempty"`
}

// LightingRoom returns the scene bindings for roomID.
func (s *Space) LightingRoom(roomID string) (LightingRoom, bool) {
	for _, r := range s.LightingRooms {
		if r.RoomID == roomID {
			return r, true
		}
	}
	return LightingRoom{}, false
}

// Clone returns a deep copy.
func (s *Space) Clone() *Space {
	out := *s
	out.People = make([]Person, len(s.People))
	for i, p := range s.People {
		p.Sources = slices.Clone(p.Sources)
		out.People[i] = p
	}
	out.Anonymous.Sources = slices.Clone(s.Anonymous.Sources)
	out.Rooms = make([]Room, len(s.Rooms))
	for i, r := range s.Rooms {
		r.Sources = slices.Clone(r.Sources)
		out.Rooms[i] = r
	}
	out.LightingZones = make([]LightingZone, len(s.LightingZones))
	for i, z := range s.LightingZones {
		z.Rooms = slices.Clone(z.Rooms)
		out.LightingZones[i] = z
	}
	out.LightingRooms = make([]LightingRoom, len(s.LightingRooms))
	for i, r := range s.LightingRooms {
		if r.EnableManualHold != nil {
			v := *r.EnableManualHold
			r.EnableManualHold = &v
		}
		out.LightingRooms[i] = r
	}
	return &out
}

// Normalize fills defaults and coerces unknown enum values so that the
// resolvers never see an out-of-range configuration.
func (s *Space) Normalize() {
	for i := range s.People {
		p := &s.People[i]
		switch p.PresenceMethod {
		case MethodHAPerson, MethodQuorum, MethodManual:
		default:
			p.PresenceMethod = MethodHAPerson
		}
		if p.Required == 0 {
			p.Required = 1
		}
		if p.DisplayName == "" {
			p.DisplayName = p.Slug
		}
	}

	if s.Anonymous.Required == 0 {
		s.Anonymous.Required = 1
	}
	if s.Anonymous.Weight == 0 {
		s.Anonymous.Weight = 1
	}

	for i := range s.Rooms {
		r := &s.Rooms[i]
		if r.Logic != LogicAllOf {
			r.Logic = LogicAnyOf
		}
		if r.DisplayName == "" {
			r.DisplayName = r.ID
		}
	}

	for i := range s.LightingZones {
		if s.LightingZones[i].DisplayName == "" {
			s.LightingZones[i].DisplayName = s.LightingZones[i].ID
		}
	}
}
