// Package engine runs Heima's evaluation cycle.
//
// One Engine owns one state.Store and the small memos carried between
// cycles (room occupancy, last applied scene per room). Evaluate runs a
// complete cycle under the engine mutex:
//
//  1. read external entities once each through a cycle-scoped memo
//  2. resolve presence and room occupancy
//  3. resolve the house state
//  4. resolve lighting intents per zone
//  5. write the derived facts into the store
//  6. build the apply plan and, when enabled in scene mode, execute it
//
// The Coordinator serialises asynchronous triggers (startup, reloads,
// explicit requests and tracked entity changes) onto a single goroutine so
// two cycles never overlap.
package engine
