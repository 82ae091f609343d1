package command

import (
	"context"
	"fmt"
	"slices"

	"github.com/nerrad567/heima-core/internal/audit"
	"github.com/nerrad567/heima-core/internal/engine"
	"github.com/nerrad567/heima-core/internal/lighting"
	"github.com/nerrad567/heima-core/internal/state"
)

// Command names.
const (
	RecomputeNow        = "recompute_now"
	SetLightingIntent   = "set_lighting_intent"
	SetHeatingIntent    = "set_heating_intent"
	SetSecurityIntent   = "set_security_intent"
	SetRoomLightingHold = "set_room_lighting_hold"
	NotifyEvent         = "notify_event"
	SetPersonOverride   = "set_person_override"
)

// EventCommandReceived is emitted when recompute_now is accepted.
const EventCommandReceived = "system.command_received"

// Names returns the supported commands in a stable order.
func Names() []string {
	return []string{
		RecomputeNow, SetLightingIntent, SetHeatingIntent, SetSecurityIntent,
		SetRoomLightingHold, NotifyEvent, SetPersonOverride,
	}
}

// Request is a single command invocation.
type Request struct {
	Command   string         `json:"command"`
	Target    map[string]any `json:"target,omitempty"`
	Params    map[string]any `json:"params,omitempty"`
	RequestID string         `json:"request_id,omitempty"`

	// Source names the surface the request came through (api, mqtt, cli).
	Source string `json:"-"`
}

// Result describes an accepted command.
type Result struct {
	Command   string        `json:"command"`
	RequestID string        `json:"request_id,omitempty"`
	Scheduled bool          `json:"scheduled"`
	Event     *engine.Event `json:"event,omitempty"`
}

// Engine is the part of the engine the dispatcher drives.
type Engine interface {
	State() *state.Store
	NotifyEvent(ctx context.Context, ev engine.Event) engine.Event
}

// Scheduler queues an evaluation cycle.
type Scheduler interface {
	Request(reason string) error
}

// AuditRecorder stores accepted commands.
type AuditRecorder interface {
	Create(ctx context.Context, log *audit.AuditLog) error
}

// Logger is the logging interface used by the dispatcher.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Dispatcher validates and applies commands.
type Dispatcher struct {
	engine    Engine
	scheduler Scheduler
	audit     AuditRecorder
	logger    Logger
}

// NewDispatcher creates a dispatcher. scheduler and auditor may be nil.
func NewDispatcher(e Engine, scheduler Scheduler, auditor AuditRecorder) *Dispatcher {
	return &Dispatcher{engine: e, scheduler: scheduler, audit: auditor, logger: noopLogger{}}
}

// SetLogger sets the logger.
func (d *Dispatcher) SetLogger(logger Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// apply is a validated side effect; it runs only after every check passed.
type apply func(ctx context.Context) (*engine.Event, error)

// Dispatch validates req and applies it.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Result, error) {
	fn, schedule, err := d.prepare(req)
	if err != nil {
		d.logger.Warn("command rejected", "command", req.Command, "request_id", req.RequestID, "error", err)
		return Result{}, err
	}

	ev, err := fn(ctx)
	if err != nil {
		d.logger.Warn("command rejected", "command", req.Command, "request_id", req.RequestID, "error", err)
		return Result{}, err
	}

	res := Result{Command: req.Command, RequestID: req.RequestID, Event: ev}
	if schedule && d.scheduler != nil {
		if err := d.scheduler.Request("command:" + req.Command); err != nil {
			d.logger.Warn("evaluation not scheduled", "command", req.Command, "error", err)
		} else {
			res.Scheduled = true
		}
	}

	d.record(ctx, req)
	d.logger.Info("command accepted", "command", req.Command, "request_id", req.RequestID, "source", req.Source)
	return res, nil
}

func (d *Dispatcher) prepare(req Request) (apply, bool, error) {
	switch req.Command {
	case RecomputeNow:
		return d.recompute(req), true, nil
	case SetLightingIntent:
		fn, err := d.lightingIntent(req)
		return fn, true, err
	case SetHeatingIntent:
		fn, err := d.selectIntent(req, state.KeyHeatingIntent, state.HeatingIntentOptions, "heating")
		return fn, true, err
	case SetSecurityIntent:
		fn, err := d.selectIntent(req, state.KeySecurityIntent, state.SecurityIntentOptions, "security")
		return fn, true, err
	case SetRoomLightingHold:
		fn, err := d.roomHold(req)
		return fn, true, err
	case NotifyEvent:
		fn, err := d.notify(req)
		return fn, false, err
	case SetPersonOverride:
		fn, err := d.personOverride(req)
		return fn, true, err
	default:
		return nil, false, fmt.Errorf("%w: Unsupported heima.command '%s'", ErrUnsupportedCommand, req.Command)
	}
}

func (d *Dispatcher) recompute(req Request) apply {
	return func(ctx context.Context) (*engine.Event, error) {
		ev := d.engine.NotifyEvent(ctx, engine.Event{
			ID:       req.RequestID,
			Type:     EventCommandReceived,
			Key:      EventCommandReceived + "." + RecomputeNow,
			Severity: engine.SeverityInfo,
			Title:    "Heima command received",
			Message:  RecomputeNow,
			Context:  map[string]any{"command": RecomputeNow, "source": req.Source},
		})
		return &ev, nil
	}
}

func (d *Dispatcher) lightingIntent(req Request) (apply, error) {
	zone, err := stringArg(req.Target, "target", "zone")
	if err != nil {
		return nil, err
	}
	intent, err := stringArg(req.Params, "params", "intent")
	if err != nil {
		return nil, err
	}
	if !lighting.Valid(intent) {
		return nil, fmt.Errorf("%w: lighting intent %q not in %v", ErrInvalidCommand, intent, lighting.Options())
	}
	return d.writeSelect(state.LightingIntent(zone), intent, "zone "+zone)
}

func (d *Dispatcher) selectIntent(req Request, key string, options []string, domain string) (apply, error) {
	intent, err := stringArg(req.Params, "params", "intent")
	if err != nil {
		return nil, err
	}
	if !slices.Contains(options, intent) {
		return nil, fmt.Errorf("%w: %s intent %q not in %v", ErrInvalidCommand, domain, intent, options)
	}
	return d.writeSelect(key, intent, domain+" domain")
}

func (d *Dispatcher) personOverride(req Request) (apply, error) {
	person, err := stringArg(req.Target, "target", "person")
	if err != nil {
		return nil, err
	}
	override, err := stringArg(req.Params, "params", "override")
	if err != nil {
		return nil, err
	}
	if !slices.Contains(state.OverrideOptions, override) {
		return nil, fmt.Errorf("%w: override %q not in %v", ErrInvalidCommand, override, state.OverrideOptions)
	}
	return d.writeSelect(state.PersonOverride(person), override, "person "+person)
}

// writeSelect checks that key is a declared select before returning the write.
func (d *Dispatcher) writeSelect(key, value, what string) (apply, error) {
	desc, ok := d.engine.State().Registry().Lookup(key)
	if !ok || desc.Kind != state.KindSelect {
		return nil, fmt.Errorf("%w: %s is not configured", ErrInvalidCommand, what)
	}
	return func(context.Context) (*engine.Event, error) {
		if err := d.engine.State().SetSelect(key, value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCommand, err)
		}
		return nil, nil
	}, nil
}

func (d *Dispatcher) roomHold(req Request) (apply, error) {
	room, err := stringArg(req.Target, "target", "room")
	if err != nil {
		return nil, err
	}
	hold, err := boolArg(req.Params, "params", "hold")
	if err != nil {
		return nil, err
	}
	key := state.LightingHold(room)
	if desc, ok := d.engine.State().Registry().Lookup(key); !ok || desc.Kind != state.KindBinary {
		return nil, fmt.Errorf("%w: room %s has no lighting hold", ErrInvalidCommand, room)
	}
	return func(context.Context) (*engine.Event, error) {
		if err := d.engine.State().SetDeclaredBinary(key, hold); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCommand, err)
		}
		return nil, nil
	}, nil
}

func (d *Dispatcher) notify(req Request) (apply, error) {
	eventType, err := stringArg(req.Params, "params", "type")
	if err != nil {
		return nil, err
	}
	severity := optionalString(req.Params, "severity")
	switch severity {
	case "", engine.SeverityInfo, engine.SeverityWarning, engine.SeverityAlert:
	default:
		return nil, fmt.Errorf("%w: severity %q must be info, warning or alert", ErrInvalidCommand, severity)
	}
	var evCtx map[string]any
	if raw, ok := req.Params["context"]; ok {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: params.context must be an object", ErrInvalidCommand)
		}
		evCtx = m
	}

	ev := engine.Event{
		ID:       req.RequestID,
		Type:     eventType,
		Key:      optionalString(req.Params, "key"),
		Severity: severity,
		Title:    optionalString(req.Params, "title"),
		Message:  optionalString(req.Params, "message"),
		Context:  evCtx,
	}
	return func(ctx context.Context) (*engine.Event, error) {
		out := d.engine.NotifyEvent(ctx, ev)
		return &out, nil
	}, nil
}

func (d *Dispatcher) record(ctx context.Context, req Request) {
	if d.audit == nil {
		return
	}
	source := req.Source
	if source == "" {
		source = "unknown"
	}
	details := map[string]any{"request_id": req.RequestID}
	if len(req.Target) > 0 {
		details["target"] = req.Target
	}
	if len(req.Params) > 0 {
		details["params"] = req.Params
	}
	if err := d.audit.Create(ctx, &audit.AuditLog{
		Action:     audit.ActionCommand,
		EntityType: "command",
		EntityID:   req.Command,
		Source:     source,
		Details:    details,
	}); err != nil {
		d.logger.Warn("failed to record command", "command", req.Command, "error", err)
	}
}
