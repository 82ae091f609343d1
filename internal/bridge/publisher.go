package bridge

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/nerrad567/heima-core/internal/engine"
	"github.com/nerrad567/heima-core/internal/infrastructure/mqtt"
)

// Canonical fact names published under heima/state/.
const (
	FactHouseState       = "house_state"
	FactHouseStateReason = "house_state_reason"
	FactAnyoneHome       = "anyone_home"
	FactPeopleCount      = "people_count"
	FactSecurityState    = "security_state"
)

// Publisher is an engine.Observer that mirrors every cycle and event to MQTT.
type Publisher struct {
	client MQTTClient
	qos    byte
	logger Logger
}

// NewPublisher creates a publisher.
func NewPublisher(client MQTTClient, qos byte, logger Logger) *Publisher {
	return &Publisher{client: client, qos: qos, logger: orNoop(logger)}
}

// OnCycle publishes the snapshot and canonical facts, all retained.
func (p *Publisher) OnCycle(_ context.Context, c engine.Cycle) {
	if !p.client.IsConnected() {
		p.logger.Debug("skipping snapshot publish, mqtt not connected", "snapshot_id", c.Snapshot.ID)
		return
	}

	topics := mqtt.Topics{}
	if payload, err := json.Marshal(c.Snapshot); err != nil {
		p.logger.Error("failed to encode snapshot", "error", err)
	} else {
		p.publish(topics.Snapshot(), payload, true)
	}

	s := c.Snapshot
	facts := []struct{ name, value string }{
		{FactHouseState, string(s.HouseState)},
		{FactHouseStateReason, string(s.HouseStateReason)},
		{FactAnyoneHome, strconv.FormatBool(s.AnyoneHome)},
		{FactPeopleCount, strconv.Itoa(s.PeopleCount)},
		{FactSecurityState, s.SecurityState},
	}
	for _, f := range facts {
		p.publish(topics.State(f.name), []byte(f.value), true)
	}
}

// OnEvent publishes ev to heima/event.
func (p *Publisher) OnEvent(_ context.Context, ev engine.Event) {
	if !p.client.IsConnected() {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("failed to encode event", "event_id", ev.ID, "error", err)
		return
	}
	p.publish(mqtt.Topics{}.Event(), payload, false)
}

func (p *Publisher) publish(topic string, payload []byte, retained bool) {
	if err := p.client.Publish(topic, payload, p.qos, retained); err != nil {
		p.logger.Warn("mqtt publish failed", "topic", topic, "error", err)
	}
}
