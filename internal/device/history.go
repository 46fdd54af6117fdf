package device

import (
	"context"
	"time"
)

// History actor values for entries not attributed to a named user.
const (
	ActorSystem     = "System"
	ActorAutomation = "Automation"
)

// HistoryEntry represents a single device action record.
//
// Entries are append-only: they are created once per state transition and
// never mutated. They provide the local audit trail for the UI history view.
type HistoryEntry struct {
	// ID is a generated unique identifier for the history row.
	ID string `json:"id"`

	// DeviceID is the unique identifier of the device the action applied to.
	DeviceID string `json:"device_id"`

	// DeviceName is the display name at the time of the action. Kept
	// denormalised so history survives device renames and removals.
	DeviceName string `json:"device_name"`

	// Action is a free-text label describing what happened ("turned on",
	// "turned off", "added", "removed").
	Action string `json:"action"`

	// Actor identifies who or what performed the action: a username,
	// "Automation: <rule source>", or "System".
	Actor string `json:"actor"`

	// CreatedAt is the timestamp of the action (UTC).
	CreatedAt time.Time `json:"created_at"`
}

// HistoryRepository stores and retrieves device action history.
//
// Implementations must be thread-safe and use UTC timestamps.
type HistoryRepository interface {
	// Append records a device action. The entry's ID and CreatedAt are
	// generated if empty.
	Append(ctx context.Context, entry *HistoryEntry) error

	// ListByDevice returns recent history for one device, newest first.
	// The limit may be clamped by the implementation.
	ListByDevice(ctx context.Context, deviceID string, limit int) ([]HistoryEntry, error)

	// ListRecent returns recent history across all devices, newest first.
	// The limit may be clamped by the implementation.
	ListRecent(ctx context.Context, limit int) ([]HistoryEntry, error)
}
