package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/heima-core/internal/lighting"
	"github.com/nerrad567/heima-core/internal/policy"
	"github.com/nerrad567/heima-core/internal/presence"
	"github.com/nerrad567/heima-core/internal/space"
	"github.com/nerrad567/heima-core/internal/state"
)

// Security reasons.
const (
	securityReasonBound    = "bound_entity"
	securityReasonDisabled = "disabled"
	securityStateUnknown   = "unknown"
)

// Engine is the single writer of one home's canonical state.
//
// Thread Safety: every exported method is safe for concurrent use; cycles
// are serialised by the engine mutex.
type Engine struct {
	mu sync.Mutex

	provider  StateProvider
	actuator  Actuator
	logger    Logger
	metrics   *Metrics
	observers []Observer
	now       func() time.Time

	space    *space.Space
	opts     Options
	loc      *time.Location
	store    *state.Store
	presence *presence.Resolver
	throttle *throttle

	eventStats map[string]int

	initialized bool
	shutdown    bool
	last        *Cycle
}

// New creates an engine with an empty space and default options.
// actuator may be nil, in which case plans are computed but never executed.
func New(provider StateProvider, actuator Actuator, logger Logger) *Engine {
	if logger == nil {
		logger = noopLogger{}
	}
	opts, loc := DefaultOptions().normalized()
	e := &Engine{
		provider:   provider,
		actuator:   actuator,
		logger:     logger,
		now:        time.Now,
		space:      &space.Space{},
		opts:       opts,
		loc:        loc,
		store:      state.NewStore(),
		throttle:   newThrottle(),
		eventStats: make(map[string]int),
	}
	e.presence = presence.NewResolver(e.store, e.clock)
	e.store.Reseed(state.BuildRegistry(e.space))
	return e
}

// clock indirects through e.now so SetClock also reaches the resolver.
func (e *Engine) clock() time.Time { return e.now() }

// SetClock replaces the time source. Intended for tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// SetMetrics attaches Prometheus collectors.
func (e *Engine) SetMetrics(m *Metrics) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.metrics = m
}

// AddObserver registers o for cycle and event notifications.
func (e *Engine) AddObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// Initialize seeds the store from the current configuration and marks the
// engine ready. The first evaluation is requested by the caller.
func (e *Engine) Initialize(_ context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.Reseed(state.BuildRegistry(e.space))
	e.initialized = true
	e.shutdown = false
	e.logger.Info("engine initialized",
		"people", len(e.space.People),
		"rooms", len(e.space.Rooms),
		"zones", len(e.space.LightingZones),
		"apply_mode", e.opts.LightingApplyMode,
	)
}

// Shutdown marks the engine stopped. Later evaluations still compute
// snapshots but never actuate.
func (e *Engine) Shutdown(_ context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdown = true
	e.logger.Info("engine shut down")
}

// ReloadConfiguration swaps in a new space and options. The store is
// reseeded from the new registry; select values that remain valid survive.
// An invalid space is rejected and the previous configuration kept.
func (e *Engine) ReloadConfiguration(_ context.Context, sp *space.Space, opts Options) error {
	if sp == nil {
		sp = &space.Space{}
	}
	cp := sp.Clone()
	cp.Normalize()
	if err := cp.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSpace, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.space = cp
	e.opts, e.loc = opts.normalized()
	e.store.Reseed(state.BuildRegistry(e.space))
	e.presence.Reset()
	e.throttle.retain(configuredRooms(e.space))
	e.eventStats = make(map[string]int)

	e.logger.Info("configuration reloaded",
		"descriptors", e.store.Registry().Len(),
		"enabled", e.opts.Enabled,
		"apply_mode", e.opts.LightingApplyMode,
	)
	return nil
}

// State returns the engine's canonical store.
func (e *Engine) State() *state.Store {
	return e.store
}

// Space returns the active space configuration. Callers must not modify it.
func (e *Engine) Space() *space.Space {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.space
}

// Options returns the active options.
func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

// Health reports whether the engine is initialised and running.
func (e *Engine) Health() Health {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.shutdown:
		return Health{OK: false, Reason: "shutdown"}
	case !e.initialized:
		return Health{OK: false, Reason: "not_initialized"}
	default:
		return Health{OK: true, Reason: "initialized"}
	}
}

// LastCycle returns a copy of the most recent cycle, if any.
func (e *Engine) LastCycle() (Cycle, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return Cycle{}, false
	}
	c := *e.last
	c.Snapshot = c.Snapshot.Clone()
	c.Plan = c.Plan.Clone()
	return c, true
}

// Evaluate runs one complete cycle and returns its snapshot. It never fails:
// unreadable inputs degrade to inactive or unknown. Scene activations are
// issued without holding the engine lock.
func (e *Engine) Evaluate(ctx context.Context, reason string) DecisionSnapshot {
	e.mu.Lock()
	start := e.now()
	rd := newCycleReader(e.provider)

	snap := e.computeSnapshot(rd, reason, start)
	plan := e.buildApplyPlan(snap)

	var d *dispatch
	if e.shutdown {
		d = &dispatch{report: ExecutionReport{Applied: []ApplyStep{}}}
	} else {
		d = e.prepareDispatch(rd, plan)
	}
	e.mu.Unlock()

	e.runDispatch(ctx, d)
	report := d.report

	e.mu.Lock()
	e.markApplied(report.Applied)
	cycle := Cycle{
		Reason:   reason,
		Snapshot: snap,
		Plan:     plan,
		Report:   report,
		Duration: since(start, e.now()),
	}
	e.last = &cycle
	observers := e.observers
	metrics := e.metrics
	e.mu.Unlock()

	metrics.observeCycle(cycle)
	e.logger.Debug("evaluation finished",
		"reason", reason,
		"snapshot_id", snap.ID,
		"house_state", snap.HouseState,
		"steps", len(plan.Steps),
		"applied", len(report.Applied),
		"duration", cycle.Duration,
	)

	for _, o := range observers {
		o.OnCycle(ctx, Cycle{
			Reason:   cycle.Reason,
			Snapshot: snap.Clone(),
			Plan:     plan.Clone(),
			Report:   report,
			Duration: cycle.Duration,
		})
	}
	return snap.Clone()
}

// computeSnapshot runs the resolvers and writes every derived fact.
func (e *Engine) computeSnapshot(rd *cycleReader, reason string, now time.Time) DecisionSnapshot {
	sum := e.presence.Resolve(rd, e.space)

	securityState := securityStateUnknown
	if e.space.Security.Enabled {
		if st, ok := rd.ReadState(e.space.Security.StateEntity); ok && st != "" {
			securityState = st
		}
		e.store.SetSensor(state.KeySecurityState, securityState)
		e.store.SetSensor(state.KeySecurityReason, securityReasonBound)
	} else if e.store.Has(state.KeySecurityReason) {
		e.store.SetSensor(state.KeySecurityReason, securityReasonDisabled)
	}

	houseState, houseReason := policy.ResolveHouseState(policy.ReadSignals(rd, sum.AnyoneHome))

	occupied := make(map[string]bool, len(sum.OccupiedRooms))
	for _, id := range sum.OccupiedRooms {
		occupied[id] = true
	}

	intents := make(map[string]lighting.Intent, len(e.space.LightingZones))
	for _, zone := range e.space.LightingZones {
		zoneOccupied := false
		for _, id := range zone.Rooms {
			if occupied[id] {
				zoneOccupied = true
				break
			}
		}
		requested, _ := e.store.Select(state.LightingIntent(zone.ID))
		intents[zone.ID] = lighting.ResolveZoneIntent(requested, houseState, zoneOccupied)

		if key := state.ZoneOccupied(zone.ID); e.store.Has(key) {
			e.store.SetBinary(key, zoneOccupied)
		}
	}

	heating, ok := e.store.Select(state.KeyHeatingIntent)
	if !ok || heating == "" {
		heating = "auto"
	}

	e.store.SetSensor(state.KeyHouseState, string(houseState))
	e.store.SetSensor(state.KeyHouseStateReason, string(houseReason))

	people := sum.PeopleHome
	if people == nil {
		people = []string{}
	}
	rooms := sum.OccupiedRooms
	if rooms == nil {
		rooms = []string{}
	}

	return DecisionSnapshot{
		ID:               uuid.NewString(),
		Timestamp:        now.In(e.loc),
		HouseState:       houseState,
		HouseStateReason: houseReason,
		AnyoneHome:       sum.AnyoneHome,
		PeopleCount:      sum.PeopleCount,
		PeopleHome:       people,
		OccupiedRooms:    rooms,
		LightingIntents:  intents,
		HeatingIntent:    heating,
		SecurityState:    securityState,
		Notes:            "reason=" + reason,
	}
}

func since(start, end time.Time) time.Duration {
	if end.Before(start) {
		return 0
	}
	return end.Sub(start)
}
