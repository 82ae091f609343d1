package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/heima-core/internal/state"
)

// Event severities.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityAlert   = "alert"
)

// Event is a notification emitted by the engine or injected by a command.
type Event struct {
	ID       string         `json:"event_id"`
	Type     string         `json:"type"`
	Key      string         `json:"key"`
	Severity string         `json:"severity"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Context  map[string]any `json:"context,omitempty"`
	TS       time.Time      `json:"ts"`
}

// NotifyEvent records ev as the last event, bumps the per-type counter and
// forwards it to observers. Missing id, timestamp, key and severity are filled in.
func (e *Engine) NotifyEvent(ctx context.Context, ev Event) Event {
	e.mu.Lock()
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.TS.IsZero() {
		ev.TS = e.now().In(e.loc)
	}
	if ev.Severity == "" {
		ev.Severity = SeverityInfo
	}
	if ev.Key == "" {
		ev.Key = ev.Type
	}

	if payload, err := json.Marshal(ev); err == nil {
		e.store.SetSensor(state.KeyLastEvent, string(payload))
	}
	e.eventStats[ev.Type]++
	if stats, err := json.Marshal(e.eventStats); err == nil {
		e.store.SetSensor(state.KeyEventStats, string(stats))
	}
	observers := e.observers
	metrics := e.metrics
	e.mu.Unlock()

	metrics.observeEvent(ev.Type)
	e.logger.Info("event emitted", "type", ev.Type, "key", ev.Key, "severity", ev.Severity)

	for _, o := range observers {
		o.OnEvent(ctx, ev)
	}
	return ev
}
