package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nerrad567/heima-core/internal/space"
)

// mockProvider is an in-memory StateProvider that counts reads.
type mockProvider struct {
	mu     sync.Mutex
	states map[string]string
	reads  map[string]int
}

func newMockProvider(states map[string]string) *mockProvider {
	if states == nil {
		states = map[string]string{}
	}
	return &mockProvider{states: states, reads: map[string]int{}}
}

func (m *mockProvider) ReadState(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[id]++
	v, ok := m.states[id]
	return v, ok
}

func (m *mockProvider) set(id, v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[id] = v
}

func (m *mockProvider) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
}

func (m *mockProvider) readCount(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[id]
}

// mockActuator records scene activations.
type mockActuator struct {
	mu     sync.Mutex
	scenes []string
	err    error
}

func (m *mockActuator) ActivateScene(_ context.Context, scene string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.scenes = append(m.scenes, scene)
	return nil
}

func (m *mockActuator) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.scenes...)
}

var errActuatorDown = errors.New("actuator down")

// blockingActuator parks every activation until release is closed.
type blockingActuator struct {
	started chan string
	release chan struct{}
}

func newBlockingActuator() *blockingActuator {
	return &blockingActuator{started: make(chan string, 8), release: make(chan struct{})}
}

func (b *blockingActuator) ActivateScene(ctx context.Context, scene string) error {
	b.started <- scene
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// mockObserver forwards notifications onto channels.
type mockObserver struct {
	cycles chan Cycle
	events chan Event
}

func newMockObserver() *mockObserver {
	return &mockObserver{cycles: make(chan Cycle, 16), events: make(chan Event, 16)}
}

func (o *mockObserver) OnCycle(_ context.Context, c Cycle)  { o.cycles <- c }
func (o *mockObserver) OnEvent(_ context.Context, ev Event) { o.events <- ev }

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 10, 1, 19, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// testHome is a two-room, one-zone home with alice bound to person.alice.
func testHome() *space.Space {
	return &space.Space{
		People: []space.Person{
			{Slug: "alice", PresenceMethod: space.MethodHAPerson, PersonEntity: "person.alice"},
		},
		Rooms: []space.Room{
			{ID: "living", Sources: []string{"binary_sensor.living_motion"}},
			{ID: "kitchen", Sources: []string{"binary_sensor.kitchen_motion"}},
		},
		LightingZones: []space.LightingZone{
			{ID: "ground", Rooms: []string{"living", "kitchen"}},
		},
		LightingRooms: []space.LightingRoom{
			{RoomID: "living", SceneEvening: "scene.living_evening", SceneNight: "scene.living_night"},
			{RoomID: "kitchen", SceneEvening: "scene.kitchen_evening"},
		},
		Heating:  space.Heating{Enabled: true},
		Security: space.Security{Enabled: true, StateEntity: "alarm_control_panel.home"},
	}
}

// homeStates has alice home, the living room occupied and every scene present.
func homeStates() map[string]string {
	return map[string]string{
		"person.alice":                "home",
		"binary_sensor.living_motion": "on",
		"scene.living_evening":        "scening",
		"scene.living_night":          "scening",
		"scene.kitchen_evening":       "scening",
		"alarm_control_panel.home":    "armed_home",
	}
}

type testRig struct {
	engine   *Engine
	provider *mockProvider
	actuator *mockActuator
	clock    *fakeClock
}

func newTestRig(sp *space.Space, opts Options) *testRig {
	provider := newMockProvider(homeStates())
	actuator := &mockActuator{}
	clock := newFakeClock()

	e := New(provider, actuator, nil)
	e.SetClock(clock.Now)
	if err := e.ReloadConfiguration(context.Background(), sp, opts); err != nil {
		panic(err)
	}
	e.Initialize(context.Background())
	return &testRig{engine: e, provider: provider, actuator: actuator, clock: clock}
}
