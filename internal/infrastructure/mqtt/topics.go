package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the Heima MQTT hierarchy.
//
// Entity state arrives from the home-automation host on
// heima/entity/{entity_id}/state. Everything Heima produces lives under the
// same prefix so a single ACL rule covers it.
const (
	// TopicPrefix is the root of every Heima topic.
	TopicPrefix = "heima"

	// TopicPrefixEntity is where upstream entity states are mirrored.
	TopicPrefixEntity = "heima/entity"

	// TopicPrefixCommand carries outbound actuation requests.
	TopicPrefixCommand = "heima/command"

	// TopicPrefixState carries retained canonical facts.
	TopicPrefixState = "heima/state"

	// TopicPrefixSystem carries Heima's own status.
	TopicPrefixSystem = "heima/system"
)

// Topics provides builders for Heima MQTT topics.
//
//	topics := mqtt.Topics{}
//	topics.EntityState("person.alice")
//	// Returns: "heima/entity/person.alice/state"
type Topics struct{}

// EntityState returns the topic an upstream entity's state is mirrored to.
//
// Example: heima/entity/binary_sensor.living_motion/state
func (Topics) EntityState(entityID string) string {
	return fmt.Sprintf("%s/%s/state", TopicPrefixEntity, entityID)
}

// SceneCommand returns the topic a scene activation is published to.
//
// Example: heima/command/scene/scene.living_evening
func (Topics) SceneCommand(sceneEntityID string) string {
	return fmt.Sprintf("%s/scene/%s", TopicPrefixCommand, sceneEntityID)
}

// CommandRequests returns the topic inbound Heima commands arrive on.
//
// Example: heima/request/command
func (Topics) CommandRequests() string {
	return TopicPrefix + "/request/command"
}

// CommandResponse returns the topic a command outcome is published to.
//
// Example: heima/response/command/req-42
func (Topics) CommandResponse(requestID string) string {
	return fmt.Sprintf("%s/response/command/%s", TopicPrefix, requestID)
}

// Snapshot returns the retained decision snapshot topic.
func (Topics) Snapshot() string {
	return TopicPrefix + "/snapshot"
}

// State returns the retained topic for a canonical fact.
//
// Example: heima/state/house_state
func (Topics) State(name string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixState, name)
}

// Event returns the topic engine events are published to.
func (Topics) Event() string {
	return TopicPrefix + "/event"
}

// SystemStatus returns the online/offline status topic (also the LWT topic).
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// AllEntityStates matches every mirrored entity state.
//
// Pattern: heima/entity/+/state
func (Topics) AllEntityStates() string {
	return TopicPrefixEntity + "/+/state"
}

// AllTopics matches all Heima traffic.
//
// Pattern: heima/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}

// EntityIDFromTopic extracts the entity id from an entity state topic.
func EntityIDFromTopic(topic string) (string, bool) {
	rest, ok := strings.CutPrefix(topic, TopicPrefixEntity+"/")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, "/state")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
