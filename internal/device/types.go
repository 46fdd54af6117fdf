package device

import (
	"fmt"
	"time"
)

// Device represents a controllable smart-home device.
// This matches the database schema in migrations/20260301_120000_initial_schema.up.sql.
//
// Devices are owned by the orchestrator, which is the only component allowed
// to mutate them. Everything else (event handlers, adapters, the API surface)
// receives independent copies via Clone().
type Device struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`

	// Classification
	Type DeviceType `json:"type"`

	// Protocol information
	Protocol Protocol `json:"protocol"`
	Address  string   `json:"address"`

	// Current state
	IsOn bool `json:"is_on"`

	// Type-specific attributes. Only the fields relevant to the device's
	// type are set; the rest stay nil.
	TargetTemp *float64 `json:"target_temp,omitempty"` // Thermostat setpoint in °C

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone creates an independent copy of the Device.
// Pointer attributes are re-allocated so modifications to the copy
// never reach the original. Events must only ever carry clones.
func (d *Device) Clone() *Device {
	if d == nil {
		return nil
	}

	cpy := *d

	if d.TargetTemp != nil {
		temp := *d.TargetTemp
		cpy.TargetTemp = &temp
	}

	return &cpy
}

// TurnOn switches the device on.
func (d *Device) TurnOn() {
	d.IsOn = true
}

// TurnOff switches the device off.
func (d *Device) TurnOff() {
	d.IsOn = false
}

// SetTargetTemp sets the thermostat setpoint.
// Has no effect on device types without temperature control.
func (d *Device) SetTargetTemp(temp float64) {
	if !typeTraitsFor(d.Type).hasTemperature {
		return
	}
	d.TargetTemp = &temp
}

// Status returns a human-readable description of the device's current state.
// The wording is looked up per device type; adding a type means adding a
// traits entry, not another branch.
func (d *Device) Status() string {
	return typeTraitsFor(d.Type).status(d)
}

// DeviceType represents the kind of device.
type DeviceType string

// DeviceType constants.
const (
	TypeLight       DeviceType = "light"
	TypeThermostat  DeviceType = "thermostat"
	TypeAirPurifier DeviceType = "air_purifier"
	TypeRobotVacuum DeviceType = "robot_vacuum"
)

// AllDeviceTypes returns all valid device type values.
func AllDeviceTypes() []DeviceType {
	return []DeviceType{TypeLight, TypeThermostat, TypeAirPurifier, TypeRobotVacuum}
}

// IsValid reports whether t is a known device type.
func (t DeviceType) IsValid() bool {
	_, ok := typeTraits[t]
	return ok
}

// Protocol represents the transport a device is reached over.
type Protocol string

// Protocol constants.
const (
	ProtocolWiFi      Protocol = "wifi"
	ProtocolBluetooth Protocol = "bluetooth"
	ProtocolZigbee    Protocol = "zigbee"
)

// AllProtocols returns all valid protocol values.
func AllProtocols() []Protocol {
	return []Protocol{ProtocolWiFi, ProtocolBluetooth, ProtocolZigbee}
}

// IsValid reports whether p is a known protocol.
func (p Protocol) IsValid() bool {
	switch p {
	case ProtocolWiFi, ProtocolBluetooth, ProtocolZigbee:
		return true
	default:
		return false
	}
}

// traits holds per-type behaviour. A table keeps type-specific logic in one
// place instead of spreading if/else chains over the codebase.
type traits struct {
	hasTemperature bool
	status         func(d *Device) string
}

var typeTraits = map[DeviceType]traits{
	TypeLight: {
		status: func(d *Device) string {
			if d.IsOn {
				return "light is on"
			}
			return "light is off"
		},
	},
	TypeThermostat: {
		hasTemperature: true,
		status: func(d *Device) string {
			if !d.IsOn {
				return "thermostat is off"
			}
			if d.TargetTemp != nil {
				return fmt.Sprintf("thermostat heating to %.1f°C", *d.TargetTemp)
			}
			return "thermostat is running"
		},
	},
	TypeAirPurifier: {
		status: func(d *Device) string {
			if d.IsOn {
				return "air purifier is cleaning"
			}
			return "air purifier is idle"
		},
	},
	TypeRobotVacuum: {
		status: func(d *Device) string {
			if d.IsOn {
				return "robot vacuum is cleaning"
			}
			return "robot vacuum is docked"
		},
	},
}

// typeTraitsFor returns the traits for a device type, falling back to a
// generic on/off description for unknown types so Status never panics.
func typeTraitsFor(t DeviceType) traits {
	if tr, ok := typeTraits[t]; ok {
		return tr
	}
	return traits{
		status: func(d *Device) string {
			if d.IsOn {
				return "device is on"
			}
			return "device is off"
		},
	}
}
