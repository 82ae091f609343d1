// Package space describes the managed home: the people whose presence is
// resolved, the rooms whose occupancy is derived, the lighting zones and
// per-room scene bindings, and the heating and security options.
//
// A Space is loaded from YAML, normalised (unknown enum values coerced to
// their defaults) and validated once per configuration reload. The engine
// treats it as read-only; identifiers are stable and a rename is a delete
// plus a create.
//
// Identifiers may not start with the reserved "heima_" prefix used by the
// canonical state keys.
package space
