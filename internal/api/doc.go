// Package api implements the HTTP REST API and WebSocket server for Heima Core.
//
// This package provides:
//   - Read endpoints for the last decision snapshot, apply plan, canonical state and audit trail
//   - Write endpoints for select facts and engine commands
//   - A WebSocket hub that streams every cycle and event to subscribed clients
//   - Bearer JWT authentication on every route except health and metrics
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Architecture
//
// The server is a thin surface over the engine. Reads go straight to the
// engine's last cycle and state store; writes go through the command
// dispatcher (or the store for plain select edits) and then ask the
// coordinator for a fresh evaluation. The hub is registered as an engine
// observer, so WebSocket clients see the same cycles MQTT consumers do.
//
// # Security
//
// When security.jwt.secret is empty, authentication is disabled. Otherwise
// reads need any valid token and writes need an operator token. WebSocket
// clients pass the token as the "token" query parameter.
package api
