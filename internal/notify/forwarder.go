package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/habitat-core/internal/events"
	"github.com/nerrad567/habitat-core/internal/infrastructure/mqtt"
)

// Publisher is the outbound surface the forwarder needs. Satisfied by
// *mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Logger defines the logging interface used by the forwarder.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// forwardedTypes is the set of domain events pushed to the broker.
var forwardedTypes = []events.EventType{
	events.TypeDeviceStateChanged,
	events.TypeDeviceAdded,
	events.TypeDeviceRemoved,
	events.TypeDeviceDisconnected,
	events.TypeAutomationTriggered,
	events.TypeUserPresenceChanged,
	events.TypeEnergySavingTriggered,
}

// Forwarder pushes domain events to the MQTT notification channel. Each
// event is serialised as JSON and published on a per-type topic; device
// state changes additionally refresh the retained per-device state topic
// so late subscribers see current state without replaying events.
//
// The serialised event shape is the wire contract toward external
// consumers and must stay stable.
type Forwarder struct {
	pub    Publisher
	qos    byte
	logger Logger
}

// NewForwarder creates a forwarder publishing at the given QoS.
func NewForwarder(pub Publisher, qos byte) *Forwarder {
	return &Forwarder{
		pub:    pub,
		qos:    qos,
		logger: noopLogger{},
	}
}

// SetLogger attaches a logger. A nil logger restores the no-op default.
func (f *Forwarder) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	f.logger = l
}

// Register subscribes the forwarder to every forwarded event type.
func (f *Forwarder) Register(bus *events.Bus) {
	for _, et := range forwardedTypes {
		bus.Subscribe(et, f.forward)
	}
}

func (f *Forwarder) forward(_ context.Context, e events.Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", e.EventType(), err)
	}

	topic := mqtt.Topics{}.Event(string(e.EventType()))
	if err := f.pub.Publish(topic, payload, f.qos, false); err != nil {
		f.logger.Warn("event forward failed",
			"topic", topic,
			"event_type", e.EventType(),
			"error", err,
		)
		return fmt.Errorf("forwarding %s event: %w", e.EventType(), err)
	}
	f.logger.Debug("event forwarded", "topic", topic, "event_id", e.EventID())

	if change, ok := e.(*events.DeviceStateChanged); ok {
		return f.publishDeviceState(change)
	}
	return nil
}

// deviceStatePayload is the retained per-device state document.
type deviceStatePayload struct {
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
	IsOn       bool   `json:"is_on"`
	Reason     string `json:"reason"`
	UpdatedAt  string `json:"updated_at"`
}

func (f *Forwarder) publishDeviceState(change *events.DeviceStateChanged) error {
	payload, err := json.Marshal(deviceStatePayload{
		DeviceID:   change.DeviceID,
		DeviceName: change.DeviceName,
		IsOn:       change.IsOn,
		Reason:     change.Reason,
		UpdatedAt:  change.OccurredAt().Format(timeFormat),
	})
	if err != nil {
		return fmt.Errorf("encoding device state: %w", err)
	}

	topic := mqtt.Topics{}.DeviceState(change.DeviceID)
	if err := f.pub.Publish(topic, payload, f.qos, true); err != nil {
		f.logger.Warn("device state publish failed",
			"topic", topic,
			"device_id", change.DeviceID,
			"error", err,
		)
		return fmt.Errorf("publishing device state: %w", err)
	}
	return nil
}

const timeFormat = "2006-01-02T15:04:05.000Z07:00"
