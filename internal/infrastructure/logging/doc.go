// Package logging provides structured logging for Heima Core.
//
// It wraps log/slog so every record carries the service name and build
// version. JSON output is intended for production, text for development.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Component("engine").Info("evaluation finished", "reason", reason)
//
// Never log secrets such as the JWT secret, MQTT password or InfluxDB token.
package logging
