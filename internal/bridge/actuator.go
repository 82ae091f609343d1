package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/heima-core/internal/infrastructure/mqtt"
)

// SceneMessage asks the home-automation host to activate a scene.
// Topic: heima/command/scene/{entity_id}
type SceneMessage struct {
	EntityID  string    `json:"entity_id"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// SceneActuator publishes scene activations over MQTT.
type SceneActuator struct {
	client MQTTClient
	qos    byte
	now    func() time.Time
}

// NewSceneActuator creates an actuator publishing at qos.
func NewSceneActuator(client MQTTClient, qos byte) *SceneActuator {
	return &SceneActuator{client: client, qos: qos, now: time.Now}
}

// ActivateScene implements engine.Actuator.
func (a *SceneActuator) ActivateScene(ctx context.Context, sceneEntityID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !a.client.IsConnected() {
		return ErrNotConnected
	}
	payload, err := json.Marshal(SceneMessage{
		EntityID:  sceneEntityID,
		Service:   "scene.turn_on",
		Timestamp: a.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding scene message: %w", err)
	}
	if err := a.client.Publish(mqtt.Topics{}.SceneCommand(sceneEntityID), payload, a.qos, false); err != nil {
		return fmt.Errorf("publishing scene %s: %w", sceneEntityID, err)
	}
	return nil
}
