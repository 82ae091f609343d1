package engine

import "time"

// Lighting apply modes.
const (
	ApplyModeScene    = "scene"
	ApplyModeDelegate = "delegate"
)

// Options are the runtime switches of an engine.
type Options struct {
	// Enabled gates actuation. Evaluation always runs.
	Enabled bool `json:"engine_enabled"`

	// LightingApplyMode is "scene" or "delegate"; anything else means scene.
	LightingApplyMode string `json:"lighting_apply_mode"`

	Timezone string `json:"timezone"`
	Language string `json:"language"`
}

// DefaultOptions returns the options used before any reload.
func DefaultOptions() Options {
	return Options{
		Enabled:           true,
		LightingApplyMode: ApplyModeScene,
		Timezone:          "UTC",
		Language:          "en",
	}
}

// normalized coerces unknown values to their defaults and resolves the timezone.
func (o Options) normalized() (Options, *time.Location) {
	if o.LightingApplyMode != ApplyModeDelegate {
		o.LightingApplyMode = ApplyModeScene
	}
	if o.Language == "" {
		o.Language = "en"
	}
	loc, err := time.LoadLocation(o.Timezone)
	if o.Timezone == "" || err != nil {
		o.Timezone = "UTC"
		loc = time.UTC
	}
	return o, loc
}
