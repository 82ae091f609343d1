package audit

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/heima-core/internal/infrastructure/database"
	"github.com/nerrad567/heima-core/migrations"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{
		Path:        filepath.Join(t.TempDir(), "audit.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup
	if err := db.Migrate(ctx, migrations.FS, "."); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewSQLiteRepository(db.DB)
}

func TestCreate_FillsDefaults(t *testing.T) {
	repo := newTestRepo(t)
	log := &AuditLog{Action: ActionCommand, EntityType: "command", EntityID: "recompute_now", Source: "api"}

	if err := repo.Create(context.Background(), log); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(log.ID) < 5 || log.ID[:4] != "aud-" {
		t.Errorf("ID = %q, want aud- prefix", log.ID)
	}
	if log.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}
}

func TestList_FiltersAndOrders(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC)

	entries := []*AuditLog{
		{Action: ActionCommand, EntityType: "command", EntityID: "recompute_now", Source: "api", CreatedAt: base},
		{Action: ActionActuation, EntityType: "lighting", EntityID: "scene.living_evening", Source: "engine",
			Details: map[string]any{"room": "living"}, CreatedAt: base.Add(time.Second)},
		{Action: ActionCommand, EntityType: "command", EntityID: "set_lighting_intent", Source: "mqtt",
			CreatedAt: base.Add(1500 * time.Millisecond)},
	}
	for _, e := range entries {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tests := []struct {
		name      string
		filter    Filter
		wantTotal int
		wantFirst string
	}{
		{"all newest first", Filter{}, 3, "set_lighting_intent"},
		{"by action", Filter{Action: ActionCommand}, 2, "set_lighting_intent"},
		{"by entity type", Filter{EntityType: "lighting"}, 1, "scene.living_evening"},
		{"by entity id", Filter{EntityID: "recompute_now"}, 1, "recompute_now"},
		{"no match", Filter{Action: ActionEvent}, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if res.Total != tt.wantTotal || len(res.Logs) != tt.wantTotal {
				t.Fatalf("List() total = %d, logs = %d, want %d", res.Total, len(res.Logs), tt.wantTotal)
			}
			if tt.wantFirst != "" && res.Logs[0].EntityID != tt.wantFirst {
				t.Errorf("first EntityID = %q, want %q", res.Logs[0].EntityID, tt.wantFirst)
			}
		})
	}

	res, err := repo.List(ctx, Filter{EntityType: "lighting"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got := res.Logs[0].Details["room"]; got != "living" {
		t.Errorf("Details[room] = %v, want living", got)
	}
}

func TestList_Paging(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	for i := range 5 {
		if err := repo.Create(ctx, &AuditLog{
			Action: ActionEvent, EntityType: "event", EntityID: "test",
			CreatedAt: time.Date(2026, 10, 1, 0, 0, i, 0, time.UTC),
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	res, err := repo.List(ctx, Filter{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if res.Total != 5 || len(res.Logs) != 1 {
		t.Errorf("List() total = %d, page = %d, want 5 and 1", res.Total, len(res.Logs))
	}

	res, err = repo.List(ctx, Filter{Limit: 10000, Offset: -3})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if res.Limit != maxLimit || res.Offset != 0 {
		t.Errorf("clamped limit/offset = %d/%d, want %d/0", res.Limit, res.Offset, maxLimit)
	}
}

func TestDecisions_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC)

	first := &Decision{Reason: "initialize", HouseState: "home", AnyoneHome: true, PeopleCount: 1,
		Snapshot: json.RawMessage(`{"house_state":"home"}`), CreatedAt: base}
	second := &Decision{Reason: "state_change", HouseState: "away", CreatedAt: base.Add(time.Minute)}
	for _, d := range []*Decision{first, second} {
		if err := repo.CreateDecision(ctx, d); err != nil {
			t.Fatalf("CreateDecision() error = %v", err)
		}
	}

	got, err := repo.ListDecisions(ctx, 0)
	if err != nil {
		t.Fatalf("ListDecisions() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListDecisions() len = %d, want 2", len(got))
	}
	if got[0].HouseState != "away" || got[0].AnyoneHome {
		t.Errorf("newest decision = %+v, want away with nobody home", got[0])
	}
	if string(got[0].Snapshot) != "{}" {
		t.Errorf("empty snapshot stored as %q, want {}", got[0].Snapshot)
	}
	if !got[1].AnyoneHome || got[1].PeopleCount != 1 || !got[1].CreatedAt.Equal(base) {
		t.Errorf("oldest decision = %+v", got[1])
	}
}
