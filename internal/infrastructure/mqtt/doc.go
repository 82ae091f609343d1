// Package mqtt connects Heima to the MQTT broker it shares with the
// home-automation host.
//
// Inbound, the host mirrors entity states to heima/entity/{entity_id}/state
// (retained) and clients may send commands on heima/request/command.
// Outbound, Heima publishes scene activations to
// heima/command/scene/{scene_entity_id}, the retained decision snapshot to
// heima/snapshot, retained canonical facts under heima/state/ and events to
// heima/event. heima/system/status carries online/offline and is also the
// last-will topic.
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllEntityStates(), 1,
//	    func(topic string, payload []byte) error {
//	        id, _ := mqtt.EntityIDFromTopic(topic)
//	        fmt.Println(id, string(payload))
//	        return nil
//	    })
package mqtt
