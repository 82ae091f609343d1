package engine

import (
	"context"
	"strings"
)

// Step outcomes recorded in metrics and reports.
const (
	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
	OutcomeMissing = "missing"
	OutcomeFailed  = "failed"
)

// ExecutionReport summarises what happened to each step of a plan.
type ExecutionReport struct {
	Executed bool        `json:"executed"`
	Applied  []ApplyStep `json:"applied"`
	Skipped  int         `json:"skipped"`
	Missing  int         `json:"missing"`
	Failed   int         `json:"failed"`
}

func (r *ExecutionReport) record(step ApplyStep, outcome string) {
	switch outcome {
	case OutcomeApplied:
		r.Applied = append(r.Applied, step)
	case OutcomeMissing:
		r.Missing++
	case OutcomeFailed:
		r.Failed++
	default:
		r.Skipped++
	}
}

// dispatch is the actuation half of a cycle. It is prepared under e.mu and
// run without it, so a slow actuator never blocks readers of the engine.
type dispatch struct {
	actuator Actuator
	metrics  *Metrics
	report   ExecutionReport
	pending  []ApplyStep
}

// ExecutePlan performs the plan's steps when actuation is allowed.
func (e *Engine) ExecutePlan(ctx context.Context, plan ApplyPlan) ExecutionReport {
	e.mu.Lock()
	d := e.prepareDispatch(newCycleReader(e.provider), plan)
	e.mu.Unlock()

	e.runDispatch(ctx, d)

	e.mu.Lock()
	e.markApplied(d.report.Applied)
	e.mu.Unlock()
	return d.report
}

// actuationAllowed reports whether plans are executed at all.
func (e *Engine) actuationAllowed() bool {
	return e.opts.Enabled && e.opts.LightingApplyMode == ApplyModeScene && e.actuator != nil
}

// prepareDispatch filters plan down to the steps to issue. Requires e.mu.
func (e *Engine) prepareDispatch(rd *cycleReader, plan ApplyPlan) *dispatch {
	d := &dispatch{
		actuator: e.actuator,
		metrics:  e.metrics,
		report:   ExecutionReport{Applied: []ApplyStep{}},
	}
	if !e.actuationAllowed() {
		e.logger.Debug("actuation disabled, plan not executed",
			"plan_id", plan.ID,
			"enabled", e.opts.Enabled,
			"apply_mode", e.opts.LightingApplyMode,
		)
		return d
	}
	d.report.Executed = true

	for _, step := range plan.Steps {
		if outcome := e.checkStep(rd, step); outcome != "" {
			d.metrics.observeStep(step.Domain, outcome)
			d.report.record(step, outcome)
			continue
		}
		d.pending = append(d.pending, step)
	}
	return d
}

// checkStep returns the outcome of a step that will not be issued, or ""
// when the step should be sent to the actuator.
func (e *Engine) checkStep(rd *cycleReader, step ApplyStep) string {
	if step.Action != ActionSceneTurnOn {
		return OutcomeSkipped
	}
	scene := step.Params["entity_id"]
	if !strings.HasPrefix(scene, "scene.") {
		return OutcomeSkipped
	}
	if _, ok := rd.ReadState(scene); !ok {
		e.logger.Warn("skipping missing scene entity", "scene", scene, "room", step.Target)
		return OutcomeMissing
	}
	return ""
}

// runDispatch issues the pending activations. Must be called without e.mu.
func (e *Engine) runDispatch(ctx context.Context, d *dispatch) {
	for _, step := range d.pending {
		scene := step.Params["entity_id"]
		outcome := OutcomeApplied
		if err := d.actuator.ActivateScene(ctx, scene); err != nil {
			e.logger.Warn("scene activation failed", "scene", scene, "room", step.Target, "error", err)
			outcome = OutcomeFailed
		} else {
			e.logger.Debug("scene applied", "scene", scene, "room", step.Target, "reason", step.Reason)
		}
		d.metrics.observeStep(step.Domain, outcome)
		d.report.record(step, outcome)
	}
}

// markApplied feeds applied scenes to the throttle. Requires e.mu.
func (e *Engine) markApplied(applied []ApplyStep) {
	now := e.now()
	for _, step := range applied {
		e.throttle.mark(step.Target, step.Params["entity_id"], now)
	}
}
