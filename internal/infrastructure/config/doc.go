// Package config handles loading and validating Heima Core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (HEIMA_*)
//   - Validation of required fields
//   - Default value handling
//
// The people/rooms/zones description of the managed space lives in a
// separate document (engine.space_file) owned by the space package.
//
// Security Considerations:
//   - Sensitive values (MQTT password, InfluxDB token, JWT secret) should be
//     set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Engine.LightingApplyMode)
package config
