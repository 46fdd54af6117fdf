// Package device provides the device capability model for Habitat Core.
//
// A Device is the unit of control in an installation: a light, thermostat,
// air purifier, or robot vacuum reachable over one of the supported
// protocols. The package defines the model, its validation rules, and the
// persistence interfaces for devices and their action history.
//
// # Key Types
//
//   - Device: The core entity with identity, type, protocol, and on/off state
//   - DeviceType: Closed enumeration of supported device kinds
//   - Protocol: Transport used to reach the device (wifi, bluetooth, zigbee)
//   - Repository: Persistence interface, implemented by SQLiteRepository
//   - HistoryEntry / HistoryRepository: Append-only action audit trail
//
// # Ownership
//
// Live Device values are owned exclusively by the orchestrator. Event
// handlers and adapters only ever see copies produced by Clone(); the
// orchestrator is the sole writer of device records and history.
//
// # Type-specific behaviour
//
// Per-type behaviour (status wording, temperature support) lives in a
// traits table keyed by DeviceType. New device types are added by extending
// the table, not by growing conditional chains in calling code.
package device
