// Package lighting resolves per-zone lighting intents and maps them onto
// room scenes.
//
// Resolution has two stages. ResolveZoneIntent combines the user's
// requested intent with the house state and zone occupancy;
// PickSceneForIntent then chooses a concrete scene entity for each room,
// falling back between related scenes when a binding is missing.
// Everything here is pure.
package lighting
