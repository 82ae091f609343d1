// Package presence resolves who is home and which rooms are occupied.
//
// The Resolver reads raw entity states through a signal.Reader, writes the
// resulting facts into the engine's state.Store and remembers the previous
// occupancy of every room so that the last-change timestamp is stamped
// only when occupancy actually flips.
package presence

import (
	"math"
	"strings"
	"time"

	"github.com/nerrad567/heima-core/internal/signal"
	"github.com/nerrad567/heima-core/internal/space"
	"github.com/nerrad567/heima-core/internal/state"
)

// AnonymousMarker is appended to the people list when the anonymous bucket is active.
const AnonymousMarker = "anonymous"

// Result is the presence of one named person.
type Result struct {
	Home       bool   `json:"home"`
	Source     string `json:"source"`
	Confidence int    `json:"confidence"`
}

// Summary is the aggregate outcome of one presence pass.
type Summary struct {
	AnyoneHome    bool
	AnonymousHome bool
	PeopleCount   int
	PeopleHome    []string
	OccupiedRooms []string
}

// Resolver computes presence and occupancy facts.
type Resolver struct {
	store *state.Store
	now   func() time.Time

	// lastOccupancy is the value each room had at the end of the previous pass.
	lastOccupancy map[string]bool
}

// NewResolver creates a Resolver writing into store.
func NewResolver(store *state.Store, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{
		store:         store,
		now:           now,
		lastOccupancy: make(map[string]bool),
	}
}

// Reset forgets the remembered room occupancy.
func (r *Resolver) Reset() {
	r.lastOccupancy = make(map[string]bool)
}

// ResolveGroupPresence counts active sources and compares the count to
// max(1, required).
func ResolveGroupPresence(rd signal.Reader, sources []string, required int) (active bool, activeCount int) {
	activeCount = signal.CountActive(rd, sources)
	return activeCount >= max(1, required), activeCount
}

// Confidence returns active/total as a rounded percentage; 0 with no sources.
func Confidence(active, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(active) / float64(total) * 100))
}

// ResolvePersonPresence computes one person's presence without touching the store
// beyond reading the override select.
func (r *Resolver) ResolvePersonPresence(rd signal.Reader, p space.Person) Result {
	switch p.PresenceMethod {
	case space.MethodQuorum:
		home, n := ResolveGroupPresence(rd, p.Sources, p.Required)
		return Result{Home: home, Source: string(space.MethodQuorum), Confidence: Confidence(n, len(p.Sources))}

	case space.MethodManual:
		override, _ := r.store.Select(state.PersonOverride(p.Slug))
		switch override {
		case state.OverrideForceHome:
			return Result{Home: true, Source: string(space.MethodManual), Confidence: 100}
		case state.OverrideForceAway:
			return Result{Home: false, Source: string(space.MethodManual), Confidence: 100}
		default:
			return Result{Home: false, Source: string(space.MethodManual), Confidence: 0}
		}

	default:
		home := false
		if p.PersonEntity != "" {
			st, ok := rd.ReadState(p.PersonEntity)
			home = ok && st == "home"
		}
		conf := 0
		if home {
			conf = 100
		}
		return Result{Home: home, Source: string(space.MethodHAPerson), Confidence: conf}
	}
}

// ResolveRoomOccupancy combines the room's sources with any_of or all_of.
// A room without sources is never occupied.
func ResolveRoomOccupancy(rd signal.Reader, room space.Room) bool {
	if len(room.Sources) == 0 {
		return false
	}
	if room.Logic == space.LogicAllOf {
		for _, id := range room.Sources {
			if !signal.Active(rd, id) {
				return false
			}
		}
		return true
	}
	return signal.AnyActive(rd, room.Sources...)
}

// Resolve runs the full presence pass for sp and writes every fact.
func (r *Resolver) Resolve(rd signal.Reader, sp *space.Space) Summary {
	var sum Summary

	for _, p := range sp.People {
		res := r.ResolvePersonPresence(rd, p)
		r.store.SetBinary(state.PersonHome(p.Slug), res.Home)
		r.store.SetSensor(state.PersonSource(p.Slug), res.Source)
		r.store.SetSensor(state.PersonConfidence(p.Slug), res.Confidence)
		if res.Home {
			sum.PeopleHome = append(sum.PeopleHome, p.Slug)
		}
	}
	sum.PeopleCount = len(sum.PeopleHome)
	sum.AnyoneHome = sum.PeopleCount > 0

	if anon := sp.Anonymous; anon.Enabled {
		active, _ := ResolveGroupPresence(rd, anon.Sources, anon.Required)
		source := "none"
		if len(anon.Sources) > 0 {
			source = strings.Join(anon.Sources, ",")
		}
		conf := 0
		if active {
			conf = 100
			sum.PeopleCount += anon.Weight
			sum.PeopleHome = append(sum.PeopleHome, AnonymousMarker)
		}
		sum.AnonymousHome = active
		r.store.SetBinary(state.KeyAnonymousPresence, active)
		r.store.SetSensor(state.KeyAnonymousConfidence, conf)
		r.store.SetSensor(state.KeyAnonymousSource, source)
	}

	sum.AnyoneHome = sum.AnyoneHome || sum.AnonymousHome

	stamp := r.now().UTC().Format(time.RFC3339)
	for _, room := range sp.Rooms {
		occupied := ResolveRoomOccupancy(rd, room)
		r.store.SetBinary(state.RoomOccupied(room.ID), occupied)
		r.store.SetSensor(state.RoomSource(room.ID), strings.Join(room.Sources, ","))
		// An unseen room counts as unoccupied, matching the seeded fact.
		if r.lastOccupancy[room.ID] != occupied {
			r.store.SetSensor(state.RoomLastChange(room.ID), stamp)
		}
		r.lastOccupancy[room.ID] = occupied
		if occupied {
			sum.OccupiedRooms = append(sum.OccupiedRooms, room.ID)
		}
	}

	r.store.SetBinary(state.KeyAnyoneHome, sum.AnyoneHome)
	r.store.SetSensor(state.KeyPeopleCount, sum.PeopleCount)
	r.store.SetSensor(state.KeyPeopleHomeList, strings.Join(sum.PeopleHome, ","))

	return sum
}
