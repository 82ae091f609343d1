// Package state holds Heima's canonical facts.
//
// The Store keeps three typed maps (binary, sensor, select) whose keys all
// live in the reserved "heima_" namespace. Which keys exist, their kinds,
// default values and allowed select options are described by a Registry
// built from the space configuration; the registry is the only place that
// decides what gets seeded.
//
// One Store is owned by one engine. Resolvers receive it explicitly.
// All methods are safe for concurrent use.
package state
