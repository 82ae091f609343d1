package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/heima-core/internal/command"
	"github.com/nerrad567/heima-core/internal/infrastructure/mqtt"
)

// Dispatcher runs a command request.
type Dispatcher interface {
	Dispatch(ctx context.Context, req command.Request) (command.Result, error)
}

// CommandResponse reports the outcome of an MQTT command.
// Topic: heima/response/command/{request_id}
type CommandResponse struct {
	RequestID string `json:"request_id"`
	Command   string `json:"command"`
	OK        bool   `json:"ok"`
	Scheduled bool   `json:"scheduled,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CommandListener feeds commands received on heima/request/command into
// a Dispatcher. Requests carrying a request_id get a response.
type CommandListener struct {
	client     MQTTClient
	dispatcher Dispatcher
	qos        byte
	logger     Logger
	ctx        context.Context //nolint:containedctx // handlers are invoked by the MQTT client without a context
}

// NewCommandListener creates a listener.
func NewCommandListener(client MQTTClient, dispatcher Dispatcher, qos byte, logger Logger) *CommandListener {
	return &CommandListener{
		client:     client,
		dispatcher: dispatcher,
		qos:        qos,
		logger:     orNoop(logger),
		ctx:        context.Background(),
	}
}

// Start subscribes to the command topic. ctx bounds every dispatch.
func (l *CommandListener) Start(ctx context.Context) error {
	l.ctx = ctx
	topic := mqtt.Topics{}.CommandRequests()
	if err := l.client.Subscribe(topic, l.qos, l.HandleMessage); err != nil {
		return fmt.Errorf("subscribe to commands: %w", err)
	}
	l.logger.Info("subscribed to commands", "topic", topic)
	return nil
}

// HandleMessage decodes and dispatches one command.
func (l *CommandListener) HandleMessage(_ string, payload []byte) error {
	var req command.Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("%w: command: %w", ErrInvalidPayload, err)
	}
	req.Source = "mqtt"

	res, err := l.dispatcher.Dispatch(l.ctx, req)
	if req.RequestID == "" {
		return nil
	}

	resp := CommandResponse{RequestID: req.RequestID, Command: req.Command, OK: err == nil, Scheduled: res.Scheduled}
	if err != nil {
		resp.Error = err.Error()
	}
	body, mErr := json.Marshal(resp)
	if mErr != nil {
		return fmt.Errorf("encoding command response: %w", mErr)
	}
	if pErr := l.client.Publish(mqtt.Topics{}.CommandResponse(req.RequestID), body, l.qos, false); pErr != nil {
		l.logger.Warn("failed to publish command response", "request_id", req.RequestID, "error", pErr)
	}
	return nil
}
