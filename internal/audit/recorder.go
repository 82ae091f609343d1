package audit

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nerrad567/heima-core/internal/engine"
)

// Logger is the logging interface used by the Recorder.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Recorder is an engine.Observer that writes applied steps and events to
// the audit trail and keeps a decision history. A decision is recorded
// when the house state or people count changes, or when steps were applied.
type Recorder struct {
	repo   Repository
	logger Logger

	mu   sync.Mutex
	last *engine.DecisionSnapshot
}

// NewRecorder creates a Recorder over repo.
func NewRecorder(repo Repository, logger Logger) *Recorder {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Recorder{repo: repo, logger: logger}
}

// OnCycle implements engine.Observer.
func (r *Recorder) OnCycle(ctx context.Context, c engine.Cycle) {
	for _, step := range c.Report.Applied {
		err := r.repo.Create(ctx, &AuditLog{
			Action:     ActionActuation,
			EntityType: step.Domain,
			EntityID:   step.Params["entity_id"],
			Source:     "engine",
			Details: map[string]any{
				"room":        step.Target,
				"reason":      step.Reason,
				"snapshot_id": c.Snapshot.ID,
				"plan_id":     c.Plan.ID,
			},
		})
		if err != nil {
			r.logger.Warn("failed to record actuation", "error", err)
		}
	}

	if !r.changed(c) {
		return
	}
	payload, err := json.Marshal(c.Snapshot)
	if err != nil {
		r.logger.Warn("failed to encode snapshot", "error", err)
		return
	}
	if err := r.repo.CreateDecision(ctx, &Decision{
		ID:          c.Snapshot.ID,
		Reason:      c.Reason,
		HouseState:  string(c.Snapshot.HouseState),
		AnyoneHome:  c.Snapshot.AnyoneHome,
		PeopleCount: c.Snapshot.PeopleCount,
		Snapshot:    payload,
		CreatedAt:   c.Snapshot.Timestamp,
	}); err != nil {
		r.logger.Warn("failed to record decision", "error", err)
	}
}

func (r *Recorder) changed(c engine.Cycle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.last
	snap := c.Snapshot
	r.last = &snap
	return prev == nil ||
		prev.HouseState != snap.HouseState ||
		prev.PeopleCount != snap.PeopleCount ||
		len(c.Report.Applied) > 0
}

// OnEvent implements engine.Observer.
func (r *Recorder) OnEvent(ctx context.Context, ev engine.Event) {
	err := r.repo.Create(ctx, &AuditLog{
		Action:     ActionEvent,
		EntityType: "event",
		EntityID:   ev.Type,
		Source:     "engine",
		Details: map[string]any{
			"event_id": ev.ID,
			"key":      ev.Key,
			"severity": ev.Severity,
			"title":    ev.Title,
			"message":  ev.Message,
		},
		CreatedAt: ev.TS,
	})
	if err != nil {
		r.logger.Warn("failed to record event", "error", err)
	}
}
