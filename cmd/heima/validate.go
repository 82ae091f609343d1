package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nerrad567/heima-core/internal/engine"
	"github.com/nerrad567/heima-core/internal/infrastructure/config"
	"github.com/nerrad567/heima-core/internal/space"
)

// validateReport summarises a valid space file.
type validateReport struct {
	Space           string `json:"space"`
	Config          string `json:"config,omitempty"`
	People          int    `json:"people"`
	Rooms           int    `json:"rooms"`
	LightingZones   int    `json:"lighting_zones"`
	LightingRooms   int    `json:"lighting_rooms"`
	Descriptors     int    `json:"descriptors"`
	TrackedEntities int    `json:"tracked_entities"`
}

func newValidateCmd(configPath func() string) *cobra.Command {
	var (
		spacePath   string
		checkConfig bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a space file (and optionally config.yaml).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath := ""
			if checkConfig {
				cfgPath = configPath()
			}
			return runValidate(cmd.Context(), cmd.OutOrStdout(), spacePath, cfgPath)
		},
	}
	cmd.Flags().StringVar(&spacePath, "space", "configs/space.yaml", "path to the space file")
	cmd.Flags().BoolVar(&checkConfig, "with-config", false, "also load and validate config.yaml")
	return cmd
}

// runValidate loads the space (and config when cfgPath is set) and prints a
// summary. Every validation problem is reported in the returned error.
func runValidate(ctx context.Context, out io.Writer, spacePath, cfgPath string) error {
	if cfgPath != "" {
		if _, err := config.Load(cfgPath); err != nil {
			return fmt.Errorf("config %s: %w", cfgPath, err)
		}
	}

	sp, err := space.Load(spacePath)
	if err != nil {
		return fmt.Errorf("space %s: %w", spacePath, err)
	}

	eng := engine.New(nil, nil, nil)
	if err := eng.ReloadConfiguration(ctx, sp, engine.DefaultOptions()); err != nil {
		return fmt.Errorf("space %s: %w", spacePath, err)
	}

	return writeJSON(out, validateReport{
		Space:           spacePath,
		Config:          cfgPath,
		People:          len(sp.People),
		Rooms:           len(sp.Rooms),
		LightingZones:   len(sp.LightingZones),
		LightingRooms:   len(sp.LightingRooms),
		Descriptors:     eng.State().Registry().Len(),
		TrackedEntities: len(eng.TrackedEntityIDs()),
	})
}
