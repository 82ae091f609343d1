package space

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleSpace = `
people:
  - slug: alice
    presence_method: ha_person
    person_entity: person.alice
  - slug: bob
    presence_method: quorum
    sources: [binary_sensor.bob_phone, binary_sensor.bob_watch, device_tracker.bob]
    required: 2
  - slug: guest_room_user
    presence_method: manual
    enable_override: true
anonymous_presence:
  enabled: true
  sources: [binary_sensor.hall_motion]
rooms:
  - id: living
    sources: [binary_sensor.living_motion]
  - id: kitchen
    sources: [binary_sensor.kitchen_motion, binary_sensor.kitchen_door]
    logic: all_of
lighting_zones:
  - id: ground_floor
    rooms: [living, kitchen]
lighting_rooms:
  - room_id: living
    scene_evening: scene.living_evening
    scene_night: scene.living_night
  - room_id: kitchen
    scene_evening: scene.kitchen_evening
    enable_manual_hold: false
security:
  enabled: true
  state_entity: alarm_control_panel.home
`

func TestParse_Valid(t *testing.T) {
	s, err := Parse([]byte(sampleSpace))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(s.People) != 3 {
		t.Fatalf("len(People) = %d, want 3", len(s.People))
	}
	if s.People[0].Required != 1 {
		t.Errorf("default Required = %d, want 1", s.People[0].Required)
	}
	if s.People[1].Required != 2 {
		t.Errorf("bob Required = %d, want 2", s.People[1].Required)
	}
	if s.Anonymous.Weight != 1 || s.Anonymous.Required != 1 {
		t.Errorf("anonymous defaults = %+v", s.Anonymous)
	}
	if s.Rooms[0].Logic != LogicAnyOf || s.Rooms[1].Logic != LogicAllOf {
		t.Errorf("room logic = %q, %q", s.Rooms[0].Logic, s.Rooms[1].Logic)
	}

	living, ok := s.LightingRoom("living")
	if !ok || !living.ManualHoldEnabled() {
		t.Errorf("living lighting room = %+v, ok=%v; manual hold should default on", living, ok)
	}
	kitchen, _ := s.LightingRoom("kitchen")
	if kitchen.ManualHoldEnabled() {
		t.Error("kitchen manual hold should be disabled")
	}
	if _, ok := s.LightingRoom("attic"); ok {
		t.Error("LightingRoom(attic) should not be found")
	}
}

func TestNormalize_CoercesUnknownValues(t *testing.T) {
	s := &Space{
		People: []Person{{Slug: "carol", PresenceMethod: "telepathy", PersonEntity: "person.carol"}},
		Rooms:  []Room{{ID: "study", Sources: []string{"binary_sensor.study"}, Logic: "most_of"}},
	}
	s.Normalize()

	if s.People[0].PresenceMethod != MethodHAPerson {
		t.Errorf("PresenceMethod = %q, want %q", s.People[0].PresenceMethod, MethodHAPerson)
	}
	if s.Rooms[0].Logic != LogicAnyOf {
		t.Errorf("Logic = %q, want %q", s.Rooms[0].Logic, LogicAnyOf)
	}
	if s.People[0].DisplayName != "carol" {
		t.Errorf("DisplayName = %q, want slug fallback", s.People[0].DisplayName)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		space   Space
		wantErr error
	}{
		{
			name:    "reserved prefix slug",
			space:   Space{People: []Person{{Slug: "heima_alice", PresenceMethod: MethodManual, Required: 1}}},
			wantErr: ErrReservedPrefix,
		},
		{
			name:    "reserved prefix room",
			space:   Space{Rooms: []Room{{ID: "heima_living", Sources: []string{"x.y"}}}},
			wantErr: ErrReservedPrefix,
		},
		{
			name:    "bad slug format",
			space:   Space{People: []Person{{Slug: "Alice Smith", PresenceMethod: MethodManual, Required: 1}}},
			wantErr: ErrInvalidID,
		},
		{
			name: "duplicate person",
			space: Space{People: []Person{
				{Slug: "alice", PresenceMethod: MethodManual, Required: 1},
				{Slug: "alice", PresenceMethod: MethodManual, Required: 1},
			}},
			wantErr: ErrDuplicateID,
		},
		{
			name:    "ha_person without entity",
			space:   Space{People: []Person{{Slug: "alice", PresenceMethod: MethodHAPerson, Required: 1}}},
			wantErr: ErrMissingField,
		},
		{
			name:    "quorum without sources",
			space:   Space{People: []Person{{Slug: "bob", PresenceMethod: MethodQuorum, Required: 1}}},
			wantErr: ErrMissingField,
		},
		{
			name: "quorum threshold below one",
			space: Space{People: []Person{{
				Slug: "bob", PresenceMethod: MethodQuorum, Sources: []string{"a.b"}, Required: -1,
			}}},
			wantErr: ErrInvalidThreshold,
		},
		{
			name:    "room without sources",
			space:   Space{Rooms: []Room{{ID: "living"}}},
			wantErr: ErrMissingField,
		},
		{
			name:    "zone references unknown room",
			space:   Space{LightingZones: []LightingZone{{ID: "upstairs", Rooms: []string{"attic"}}}},
			wantErr: ErrUnknownRoom,
		},
		{
			name: "quorum threshold above source count",
			space: Space{People: []Person{{
				Slug: "bob", PresenceMethod: MethodQuorum, Sources: []string{"a.b", "c.d"}, Required: 3,
			}}},
			wantErr: ErrInvalidThreshold,
		},
		{
			name: "anonymous threshold above source count",
			space: Space{Anonymous: AnonymousPresence{
				Enabled: true, Sources: []string{"m.hall"}, Required: 2, Weight: 1,
			}},
			wantErr: ErrInvalidThreshold,
		},
		{
			name: "anonymous negative weight",
			space: Space{Anonymous: AnonymousPresence{
				Enabled: true, Sources: []string{"m.hall"}, Required: 1, Weight: -2,
			}},
			wantErr: ErrInvalidWeight,
		},
		{
			name: "lighting room without any scene",
			space: Space{
				Rooms:         []Room{{ID: "living", Sources: []string{"a.b"}}},
				LightingRooms: []LightingRoom{{RoomID: "living"}},
			},
			wantErr: ErrMissingField,
		},
		{
			name:    "security without entity",
			space:   Space{Security: Security{Enabled: true}},
			wantErr: ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.space.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Accepted(t *testing.T) {
	tests := []struct {
		name  string
		space Space
	}{
		{
			name: "lighting room with only an off scene",
			space: Space{
				Rooms:         []Room{{ID: "living", Sources: []string{"a.b"}}},
				LightingRooms: []LightingRoom{{RoomID: "living", SceneOff: "scene.living_off"}},
			},
		},
		{
			name: "lighting room with only a relax scene",
			space: Space{
				Rooms:         []Room{{ID: "living", Sources: []string{"a.b"}}},
				LightingRooms: []LightingRoom{{RoomID: "living", SceneRelax: "scene.living_relax"}},
			},
		},
		{
			name: "quorum threshold equal to source count",
			space: Space{People: []Person{{
				Slug: "bob", PresenceMethod: MethodQuorum, Sources: []string{"a.b", "c.d"}, Required: 2,
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.space.Normalize()
			if err := tt.space.Validate(); err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}

func TestParse_OffSceneOnly(t *testing.T) {
	doc := `
rooms:
  - id: living
    sources: [binary_sensor.living_motion]
lighting_rooms:
  - room_id: living
    scene_off: scene.living_off
`
	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if lr, ok := s.LightingRoom("living"); !ok || lr.SceneOff != "scene.living_off" {
		t.Errorf("living lighting room = %+v, ok=%v", lr, ok)
	}
}

func TestValidate_Empty(t *testing.T) {
	var s Space
	s.Normalize()
	if err := s.Validate(); err != nil {
		t.Errorf("empty space should be valid, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "space.yaml")
	if err := os.WriteFile(path, []byte(sampleSpace), 0600); err != nil {
		t.Fatalf("writing space file: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("Load() error = %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestClone_Independent(t *testing.T) {
	s, err := Parse([]byte(sampleSpace))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	c := s.Clone()
	c.Rooms[0].Sources[0] = "binary_sensor.changed"
	c.LightingZones[0].Rooms[0] = "kitchen"
	*c.LightingRooms[1].EnableManualHold = true

	if s.Rooms[0].Sources[0] == "binary_sensor.changed" {
		t.Error("room sources aliased")
	}
	if s.LightingZones[0].Rooms[0] != "living" {
		t.Error("zone rooms aliased")
	}
	if s.LightingRooms[1].ManualHoldEnabled() {
		t.Error("manual hold pointer aliased")
	}
}
