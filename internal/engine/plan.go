package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/heima-core/internal/lighting"
	"github.com/nerrad567/heima-core/internal/space"
	"github.com/nerrad567/heima-core/internal/state"
)

// minSceneApplyInterval suppresses re-applying the same scene to a room.
const minSceneApplyInterval = 10 * time.Second

// Step vocabulary.
const (
	DomainLighting    = "lighting"
	ActionSceneTurnOn = "scene.turn_on"
)

// ApplyStep is one actuation the engine wants performed.
type ApplyStep struct {
	Domain string            `json:"domain"`
	Target string            `json:"target"`
	Action string            `json:"action"`
	Params map[string]string `json:"params"`
	Reason string            `json:"reason"`
}

// ApplyPlan is the ordered list of steps for one cycle. Never mutated after build.
type ApplyPlan struct {
	ID    string      `json:"plan_id"`
	Steps []ApplyStep `json:"steps"`
}

// Clone returns a deep copy.
func (p ApplyPlan) Clone() ApplyPlan {
	steps := make([]ApplyStep, len(p.Steps))
	for i, s := range p.Steps {
		params := make(map[string]string, len(s.Params))
		for k, v := range s.Params {
			params[k] = v
		}
		s.Params = params
		steps[i] = s
	}
	p.Steps = steps
	return p
}

// throttle remembers, per room, the last scene applied and when.
type throttle struct {
	lastScene map[string]string
	lastAt    map[string]time.Time
}

func newThrottle() *throttle {
	return &throttle{
		lastScene: make(map[string]string),
		lastAt:    make(map[string]time.Time),
	}
}

// allow reports whether scene may be applied to room at now. A different
// scene is always allowed.
func (t *throttle) allow(room, scene string, now time.Time) bool {
	if t.lastScene[room] != scene {
		return true
	}
	return now.Sub(t.lastAt[room]) >= minSceneApplyInterval
}

func (t *throttle) mark(room, scene string, now time.Time) {
	t.lastScene[room] = scene
	t.lastAt[room] = now
}

// retain drops entries for rooms that are no longer configured.
func (t *throttle) retain(rooms map[string]bool) {
	for room := range t.lastScene {
		if !rooms[room] {
			delete(t.lastScene, room)
			delete(t.lastAt, room)
		}
	}
}

// BuildApplyPlan derives the actuation steps for a snapshot.
func (e *Engine) BuildApplyPlan(s DecisionSnapshot) ApplyPlan {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buildApplyPlan(s)
}

func (e *Engine) buildApplyPlan(s DecisionSnapshot) ApplyPlan {
	plan := ApplyPlan{ID: uuid.NewString(), Steps: []ApplyStep{}}
	now := e.now()

	for _, zone := range e.space.LightingZones {
		intent, ok := s.LightingIntents[zone.ID]
		if !ok {
			continue
		}
		for _, roomID := range zone.Rooms {
			if step, ok := e.stepForRoom(roomID, intent, now); ok {
				plan.Steps = append(plan.Steps, step)
			}
		}
	}
	return plan
}

func (e *Engine) stepForRoom(roomID string, intent lighting.Intent, now time.Time) (ApplyStep, bool) {
	if e.store.Binary(state.LightingHold(roomID)) {
		return ApplyStep{}, false
	}
	room, ok := e.space.LightingRoom(roomID)
	if !ok {
		return ApplyStep{}, false
	}
	scene, ok := lighting.PickSceneForIntent(lighting.SceneMapFor(room), intent)
	if !ok {
		return ApplyStep{}, false
	}
	if !e.throttle.allow(roomID, scene, now) {
		return ApplyStep{}, false
	}
	return ApplyStep{
		Domain: DomainLighting,
		Target: roomID,
		Action: ActionSceneTurnOn,
		Params: map[string]string{"entity_id": scene},
		Reason: "intent:" + string(intent),
	}, true
}

// configuredRooms returns the set of room ids declared in sp.
func configuredRooms(sp *space.Space) map[string]bool {
	rooms := make(map[string]bool, len(sp.Rooms))
	for _, r := range sp.Rooms {
		rooms[r.ID] = true
	}
	return rooms
}
