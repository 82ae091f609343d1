package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newRootCmd assembles the command tree. A fresh tree per call keeps tests
// free of shared flag state.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "heima",
		Short:         "Rule-based home decision engine.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to config.yaml (default $HEIMA_CONFIG or "+defaultConfigPath+")")

	resolve := func() string { return resolveConfigPath(configPath) }

	root.AddCommand(
		newServeCmd(resolve),
		newEvaluateCmd(),
		newValidateCmd(resolve),
		newTokenCmd(resolve),
		newVersionCmd(),
	)
	return root
}

// resolveConfigPath prefers the flag, then HEIMA_CONFIG, then the default.
func resolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if path := os.Getenv("HEIMA_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "heima %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
