// Heima Core - rule-based home decision engine
//
// This is the main entry point for the Heima Core application. Heima reads
// presence, occupancy and security entities from MQTT, resolves them into a
// house state and per-zone lighting intents, and activates room scenes.
//
// Subcommands:
//
//	heima serve      run the engine with MQTT, SQLite, the HTTP API and optional InfluxDB
//	heima evaluate   one-shot dry run from YAML fixtures
//	heima validate   check a space file
//	heima token      mint an API bearer token
//	heima version    print build information
package main

import (
	"fmt"
	"os"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// defaultConfigPath is used when neither --config nor HEIMA_CONFIG is set.
const defaultConfigPath = "configs/config.yaml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
