// Package bridge connects the engine to the MQTT broker.
//
// StateCache mirrors upstream entity states and serves them to the engine
// as its StateProvider, reporting each change so the coordinator can
// schedule a cycle. SceneActuator publishes scene activations. Publisher
// observes the engine and publishes the snapshot, canonical facts and
// events. CommandListener accepts Heima commands over MQTT.
//
// StaticProvider serves a fixed set of states loaded from YAML and backs
// the one-shot CLI evaluation.
package bridge
