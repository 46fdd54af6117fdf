package adapters

import (
	"context"

	"github.com/nerrad567/habitat-core/internal/device"
)

// BluetoothAdapter is the baseline BLE transport. Pairing is the slow path
// here: a scan phase followed by the pairing handshake.
type BluetoothAdapter struct {
	timing    Timing
	sleep     sleepFunc
	transport Transport
	logger    Logger
}

// NewBluetoothAdapter creates a baseline BLE adapter. Zero timing fields
// fall back to DefaultBluetoothTiming.
func NewBluetoothAdapter(timing Timing) *BluetoothAdapter {
	return &BluetoothAdapter{
		timing: timing.withDefaults(DefaultBluetoothTiming),
		sleep:  sleep,
		logger: noopLogger{},
	}
}

// SetLogger attaches a logger. A nil logger restores the no-op default.
func (a *BluetoothAdapter) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	a.logger = l
}

// Protocol returns device.ProtocolBluetooth.
func (a *BluetoothAdapter) Protocol() device.Protocol {
	return device.ProtocolBluetooth
}

// Pair performs the simulated scan-and-pair handshake.
func (a *BluetoothAdapter) Pair(ctx context.Context, address string) bool {
	a.logger.Debug("pairing over bluetooth", "address", address)
	if err := a.sleep(ctx, a.timing.PairDelay); err != nil {
		a.logger.Warn("bluetooth pairing cancelled", "address", address, "error", err)
		return false
	}
	a.logger.Debug("bluetooth pairing complete", "address", address)
	return true
}

// SendCommand sends a single command over the simulated transport.
func (a *BluetoothAdapter) SendCommand(ctx context.Context, address, command string) bool {
	a.logger.Debug("sending bluetooth command", "address", address, "command", command)
	return a.send(ctx, address, command)
}

func (a *BluetoothAdapter) send(ctx context.Context, address, command string) bool {
	if a.transport != nil {
		return a.transport(ctx, address, command)
	}
	return a.sleep(ctx, a.timing.CommandDelay) == nil
}
