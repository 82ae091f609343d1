package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/heima-core/internal/bridge"
	"github.com/nerrad567/heima-core/internal/engine"
	"github.com/nerrad567/heima-core/internal/infrastructure/config"
	"github.com/nerrad567/heima-core/internal/infrastructure/logging"
	"github.com/nerrad567/heima-core/internal/space"
	"github.com/nerrad567/heima-core/internal/state"
)

// reasonCLI is the evaluation reason recorded for one-shot runs.
const reasonCLI = "cli"

// evaluateOptions are the flags of the evaluate command.
type evaluateOptions struct {
	spacePath  string
	statesPath string
	applyMode  string
	timezone   string
	at         string
	selects    map[string]string
}

// evaluateOutput is what evaluate prints.
type evaluateOutput struct {
	Snapshot engine.DecisionSnapshot `json:"snapshot"`
	Plan     engine.ApplyPlan        `json:"plan"`
	State    state.Values            `json:"state"`
}

func newEvaluateCmd() *cobra.Command {
	opts := evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate once against fixture states and print the result.",
		Long: `Builds an engine from a space file and a YAML map of entity states,
runs one evaluation cycle and prints the decision snapshot, apply plan and
canonical state as JSON. Nothing is actuated.

Example:
  heima evaluate --space configs/space.yaml --states states.yaml \
    --set heima_lighting_intent_downstairs=scene_relax`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.spacePath, "space", "configs/space.yaml", "path to the space file")
	flags.StringVar(&opts.statesPath, "states", "", "path to a YAML map of entity_id: state")
	flags.StringVar(&opts.applyMode, "apply-mode", config.ApplyModeScene, "lighting apply mode (scene or delegate)")
	flags.StringVar(&opts.timezone, "timezone", "UTC", "IANA timezone for timestamps")
	flags.StringVar(&opts.at, "at", "", "evaluation time in RFC 3339 (default now)")
	flags.StringToStringVar(&opts.selects, "set", nil, "select facts to set before evaluating (key=value)")
	return cmd
}

// runEvaluate performs one dry-run cycle and writes JSON to out.
func runEvaluate(ctx context.Context, out, errOut io.Writer, opts evaluateOptions) error {
	sp, err := space.Load(opts.spacePath)
	if err != nil {
		return fmt.Errorf("loading space: %w", err)
	}

	provider := bridge.StaticProvider{}
	if opts.statesPath != "" {
		if provider, err = bridge.LoadStates(opts.statesPath); err != nil {
			return fmt.Errorf("loading states: %w", err)
		}
	}

	log := logging.NewWithWriter(errOut, config.LoggingConfig{Level: "warn", Format: "text"}, version)

	// No actuator: the plan is built and reported but never executed.
	eng := engine.New(provider, nil, log.Component("engine"))
	if opts.at != "" {
		at, parseErr := time.Parse(time.RFC3339, opts.at)
		if parseErr != nil {
			return fmt.Errorf("parsing --at: %w", parseErr)
		}
		eng.SetClock(func() time.Time { return at })
	}

	engineOpts := engine.Options{
		Enabled:           false,
		LightingApplyMode: opts.applyMode,
		Timezone:          opts.timezone,
		Language:          "en",
	}
	if err := eng.ReloadConfiguration(ctx, sp, engineOpts); err != nil {
		return fmt.Errorf("configuring engine: %w", err)
	}
	eng.Initialize(ctx)

	keys := make([]string, 0, len(opts.selects))
	for k := range opts.selects {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := eng.State().SetSelect(k, opts.selects[k]); err != nil {
			return fmt.Errorf("--set %s: %w", k, err)
		}
	}

	snapshot := eng.Evaluate(ctx, reasonCLI)
	cycle, _ := eng.LastCycle()

	return writeJSON(out, evaluateOutput{
		Snapshot: snapshot,
		Plan:     cycle.Plan,
		State:    eng.State().Values(),
	})
}

// writeJSON pretty-prints v.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
