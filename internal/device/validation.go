package device

import (
	"fmt"
	"strings"
)

// maxNameLength bounds device display names.
const maxNameLength = 100

// Validate checks a device for structural correctness before it is persisted.
//
// Returns:
//   - error: nil if valid, or a wrapped sentinel error describing the failure
func Validate(d *Device) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}

	if !d.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDeviceType, d.Type)
	}

	if !d.Protocol.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidProtocol, d.Protocol)
	}

	if d.TargetTemp != nil && !typeTraitsFor(d.Type).hasTemperature {
		return fmt.Errorf("%w: %s does not support a temperature setpoint", ErrInvalidDevice, d.Type)
	}

	return nil
}
