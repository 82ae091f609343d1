package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/heima-core/internal/engine"
	"github.com/nerrad567/heima-core/internal/policy"
)

type mockRepo struct {
	mu        sync.Mutex
	logs      []AuditLog
	decisions []Decision
}

func (m *mockRepo) Create(_ context.Context, log *AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockRepo) List(context.Context, Filter) (*ListResult, error) {
	return &ListResult{}, nil
}

func (m *mockRepo) CreateDecision(_ context.Context, d *Decision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, *d)
	return nil
}

func (m *mockRepo) ListDecisions(context.Context, int) ([]Decision, error) {
	return nil, nil
}

func cycle(hs policy.HouseState, people int, applied ...engine.ApplyStep) engine.Cycle {
	return engine.Cycle{
		Reason: engine.ReasonStateChange,
		Snapshot: engine.DecisionSnapshot{
			ID:          "snap",
			Timestamp:   time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC),
			HouseState:  hs,
			PeopleCount: people,
			AnyoneHome:  people > 0,
		},
		Report: engine.ExecutionReport{Applied: applied},
	}
}

func TestRecorder_OnCycle(t *testing.T) {
	repo := &mockRepo{}
	rec := NewRecorder(repo, nil)
	ctx := context.Background()

	rec.OnCycle(ctx, cycle(policy.StateHome, 1))
	rec.OnCycle(ctx, cycle(policy.StateHome, 1))
	rec.OnCycle(ctx, cycle(policy.StateAway, 0))
	rec.OnCycle(ctx, cycle(policy.StateAway, 0, engine.ApplyStep{
		Domain: engine.DomainLighting,
		Target: "living",
		Action: engine.ActionSceneTurnOn,
		Params: map[string]string{"entity_id": "scene.living_off"},
		Reason: "intent:off",
	}))

	if len(repo.decisions) != 3 {
		t.Fatalf("decisions recorded = %d, want 3 (unchanged cycle skipped)", len(repo.decisions))
	}
	if repo.decisions[1].HouseState != string(policy.StateAway) {
		t.Errorf("second decision house state = %q", repo.decisions[1].HouseState)
	}
	if len(repo.logs) != 1 {
		t.Fatalf("audit logs = %d, want 1 actuation", len(repo.logs))
	}
	log := repo.logs[0]
	if log.Action != ActionActuation || log.EntityID != "scene.living_off" || log.Details["room"] != "living" {
		t.Errorf("actuation log = %+v", log)
	}
}

func TestRecorder_OnEvent(t *testing.T) {
	repo := &mockRepo{}
	rec := NewRecorder(repo, nil)

	rec.OnEvent(context.Background(), engine.Event{
		ID:       "ev-1",
		Type:     "system.command_received",
		Key:      "system.command_received.recompute_now",
		Severity: engine.SeverityInfo,
	})

	if len(repo.logs) != 1 {
		t.Fatalf("audit logs = %d, want 1", len(repo.logs))
	}
	if repo.logs[0].Action != ActionEvent || repo.logs[0].EntityID != "system.command_received" {
		t.Errorf("event log = %+v", repo.logs[0])
	}
}
