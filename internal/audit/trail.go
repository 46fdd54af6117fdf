// Package audit writes a structured activity trail of every domain event.
//
// The trail is a plain bus subscriber: one log line per event, with the
// event's identity and its variant-specific fields as attributes. It gives
// operators a single greppable record of who changed what, without adding
// another storage dependency; the persisted per-device record lives in
// device_history.
package audit

import (
	"context"

	"github.com/nerrad567/habitat-core/internal/events"
)

// Logger is the structured log surface the trail writes to.
type Logger interface {
	Info(msg string, args ...any)
}

// auditedTypes lists every event variant the trail records.
var auditedTypes = [...]events.EventType{
	events.TypeDeviceStateChanged,
	events.TypeDeviceAdded,
	events.TypeDeviceRemoved,
	events.TypeDeviceDisconnected,
	events.TypeAutomationTriggered,
	events.TypeUserPresenceChanged,
	events.TypeEnergySavingTriggered,
}

// Trail logs domain events as they are published.
type Trail struct {
	logger Logger
}

// NewTrail creates an audit trail writing to the given logger.
func NewTrail(logger Logger) *Trail {
	return &Trail{logger: logger}
}

// Register subscribes the trail to every audited event type.
func (t *Trail) Register(bus *events.Bus) {
	for _, et := range auditedTypes {
		bus.Subscribe(et, t.record)
	}
}

// record emits one log line for the event. It never returns an error:
// the trail must not fail the operation it is describing.
func (t *Trail) record(_ context.Context, e events.Event) error {
	attrs := []any{
		"event_id", e.EventID(),
		"event_type", string(e.EventType()),
	}

	switch ev := e.(type) {
	case *events.DeviceStateChanged:
		attrs = append(attrs,
			"device_id", ev.DeviceID,
			"device_name", ev.DeviceName,
			"is_on", ev.IsOn,
			"changed_by", ev.ChangedBy,
			"reason", ev.Reason,
		)
	case *events.DeviceAdded:
		attrs = append(attrs,
			"device_id", ev.DeviceID,
			"device_name", ev.DeviceName,
			"protocol", string(ev.Protocol),
			"added_by", ev.AddedBy,
		)
	case *events.DeviceRemoved:
		attrs = append(attrs,
			"device_id", ev.DeviceID,
			"device_name", ev.DeviceName,
			"removed_by", ev.RemovedBy,
		)
	case *events.DeviceDisconnected:
		attrs = append(attrs,
			"device_id", ev.DeviceID,
			"device_name", ev.DeviceName,
			"reason", ev.Reason,
		)
	case *events.AutomationTriggered:
		attrs = append(attrs,
			"rule", ev.Name,
			"trigger_source", ev.TriggerSource,
			"affected", len(ev.AffectedDeviceIDs),
		)
	case *events.UserPresenceChanged:
		attrs = append(attrs,
			"username", ev.Username,
			"is_home", ev.IsHome,
			"affected", ev.AffectedCount,
		)
	case *events.EnergySavingTriggered:
		attrs = append(attrs,
			"lights_off", ev.Count,
		)
	}

	t.logger.Info("activity", attrs...)
	return nil
}
