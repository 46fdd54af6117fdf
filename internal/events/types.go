package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/habitat-core/internal/device"
)

// EventType identifies the variant of a domain event.
// Types are compile-time known; the bus dispatches on exact type match.
type EventType string

// Event type constants.
const (
	TypeDeviceStateChanged    EventType = "device_state_changed"
	TypeDeviceAdded           EventType = "device_added"
	TypeDeviceRemoved         EventType = "device_removed"
	TypeDeviceDisconnected    EventType = "device_disconnected"
	TypeAutomationTriggered   EventType = "automation_triggered"
	TypeUserPresenceChanged   EventType = "user_presence_changed"
	TypeEnergySavingTriggered EventType = "energy_saving_triggered"
)

// State-change reason values carried in DeviceStateChanged.
const (
	ReasonUser         = "User"
	ReasonAutomation   = "Automation"
	ReasonEnergySaving = "EnergySaving"
	ReasonPresence     = "Presence"
)

// Event is an immutable fact about something that already happened.
//
// Every event carries a generated identifier, a UTC creation timestamp, and
// its variant tag, all assigned at construction and never mutated.
type Event interface {
	EventID() string
	OccurredAt() time.Time
	EventType() EventType
}

// Meta holds the common event fields. It is embedded in every variant and
// provides the Event interface implementation.
type Meta struct {
	ID        string    `json:"event_id"`
	Timestamp time.Time `json:"occurred_at"`
	Type      EventType `json:"event_type"`
}

// EventID returns the unique identifier assigned at construction.
func (m Meta) EventID() string { return m.ID }

// OccurredAt returns the UTC creation timestamp.
func (m Meta) OccurredAt() time.Time { return m.Timestamp }

// EventType returns the variant tag.
func (m Meta) EventType() EventType { return m.Type }

// newMeta stamps a fresh event with identity, timestamp, and tag.
func newMeta(t EventType) Meta {
	return Meta{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Type:      t,
	}
}

// DeviceStateChanged is published by the orchestrator after a device's
// on/off state has been committed. The bus does not enforce
// PreviousState != IsOn; the orchestrator guards against no-op publishes
// at the source.
type DeviceStateChanged struct {
	Meta
	DeviceID      string            `json:"device_id"`
	DeviceName    string            `json:"device_name"`
	DeviceType    device.DeviceType `json:"device_type"`
	IsOn          bool              `json:"is_on"`
	PreviousState bool              `json:"previous_state"`
	ChangedBy     string            `json:"changed_by"`
	Reason        string            `json:"reason"`
}

// NewDeviceStateChanged constructs a DeviceStateChanged event.
func NewDeviceStateChanged(d *device.Device, previousState bool, changedBy, reason string) *DeviceStateChanged {
	return &DeviceStateChanged{
		Meta:          newMeta(TypeDeviceStateChanged),
		DeviceID:      d.ID,
		DeviceName:    d.Name,
		DeviceType:    d.Type,
		IsOn:          d.IsOn,
		PreviousState: previousState,
		ChangedBy:     changedBy,
		Reason:        reason,
	}
}

// DeviceAdded is published when a device is provisioned.
type DeviceAdded struct {
	Meta
	DeviceID   string            `json:"device_id"`
	DeviceName string            `json:"device_name"`
	DeviceType device.DeviceType `json:"device_type"`
	Protocol   device.Protocol   `json:"protocol"`
	AddedBy    string            `json:"added_by"`
}

// NewDeviceAdded constructs a DeviceAdded event.
func NewDeviceAdded(d *device.Device, addedBy string) *DeviceAdded {
	return &DeviceAdded{
		Meta:       newMeta(TypeDeviceAdded),
		DeviceID:   d.ID,
		DeviceName: d.Name,
		DeviceType: d.Type,
		Protocol:   d.Protocol,
		AddedBy:    addedBy,
	}
}

// DeviceRemoved is published when a device is deleted.
type DeviceRemoved struct {
	Meta
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
	RemovedBy  string `json:"removed_by"`
}

// NewDeviceRemoved constructs a DeviceRemoved event.
func NewDeviceRemoved(deviceID, deviceName, removedBy string) *DeviceRemoved {
	return &DeviceRemoved{
		Meta:       newMeta(TypeDeviceRemoved),
		DeviceID:   deviceID,
		DeviceName: deviceName,
		RemovedBy:  removedBy,
	}
}

// DeviceDisconnected is published when an adapter reports a device as
// unreachable.
type DeviceDisconnected struct {
	Meta
	DeviceID   string `json:"device_id"`
	DeviceName string `json:"device_name"`
	Reason     string `json:"reason"`
}

// NewDeviceDisconnected constructs a DeviceDisconnected event.
func NewDeviceDisconnected(deviceID, deviceName, reason string) *DeviceDisconnected {
	return &DeviceDisconnected{
		Meta:       newMeta(TypeDeviceDisconnected),
		DeviceID:   deviceID,
		DeviceName: deviceName,
		Reason:     reason,
	}
}

// AutomationTriggered summarises a rule firing: which rule, what caused it,
// and which devices it actually changed.
type AutomationTriggered struct {
	Meta
	Name              string   `json:"name"`
	TriggerSource     string   `json:"trigger_source"`
	AffectedDeviceIDs []string `json:"affected_device_ids"`
}

// NewAutomationTriggered constructs an AutomationTriggered event.
func NewAutomationTriggered(name, triggerSource string, affectedDeviceIDs []string) *AutomationTriggered {
	ids := make([]string, len(affectedDeviceIDs))
	copy(ids, affectedDeviceIDs)
	return &AutomationTriggered{
		Meta:              newMeta(TypeAutomationTriggered),
		Name:              name,
		TriggerSource:     triggerSource,
		AffectedDeviceIDs: ids,
	}
}

// UserPresenceChanged is published when a user arrives home or leaves.
type UserPresenceChanged struct {
	Meta
	Username      string `json:"username"`
	IsHome        bool   `json:"is_home"`
	AffectedCount int    `json:"affected_count"`
}

// NewUserPresenceChanged constructs a UserPresenceChanged event.
func NewUserPresenceChanged(username string, isHome bool, affectedCount int) *UserPresenceChanged {
	return &UserPresenceChanged{
		Meta:          newMeta(TypeUserPresenceChanged),
		Username:      username,
		IsHome:        isHome,
		AffectedCount: affectedCount,
	}
}

// EnergySavingTriggered summarises one energy-saving sweep that turned off
// at least one light. Sweeps that change nothing publish nothing.
type EnergySavingTriggered struct {
	Meta
	Count             int      `json:"count"`
	AffectedDeviceIDs []string `json:"affected_device_ids"`
}

// NewEnergySavingTriggered constructs an EnergySavingTriggered event.
func NewEnergySavingTriggered(affectedDeviceIDs []string) *EnergySavingTriggered {
	ids := make([]string, len(affectedDeviceIDs))
	copy(ids, affectedDeviceIDs)
	return &EnergySavingTriggered{
		Meta:              newMeta(TypeEnergySavingTriggered),
		Count:             len(ids),
		AffectedDeviceIDs: ids,
	}
}
