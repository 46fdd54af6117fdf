package adapters

import (
	"context"
	"time"

	"github.com/nerrad567/habitat-core/internal/device"
)

// Command labels understood by the adapters.
const (
	CmdTurnOn        = "turn_on"
	CmdTurnOff       = "turn_off"
	CmdToggle        = "toggle"
	CmdGetStatus     = "get_status"
	CmdSetBrightness = "set_brightness"
	CmdSetColor      = "set_color"
)

// Adapter is the baseline transport contract every protocol implementation
// satisfies: identify the protocol, pair with a device, send it a command.
//
// Transport outcomes are booleans, not errors: a failed pair or command is
// an expected, recoverable condition on physically unreliable radio links.
// Context cancellation counts as failure.
type Adapter interface {
	// Protocol returns the protocol this adapter speaks.
	Protocol() device.Protocol

	// Pair performs the initial pairing handshake with a device.
	Pair(ctx context.Context, address string) bool

	// SendCommand sends a single command to a paired device.
	SendCommand(ctx context.Context, address, command string) bool
}

// AdvancedAdapter is the optional capability superset. Callers detect
// support with an interface assertion:
//
//	if adv, ok := adapter.(adapters.AdvancedAdapter); ok {
//	    health := adv.CheckHealth(ctx, addr)
//	}
type AdvancedAdapter interface {
	Adapter

	// Discover scans for devices reachable over this protocol. The scan
	// runs for the given timeout unless the context ends first.
	Discover(ctx context.Context, timeout time.Duration) ([]DiscoveredDevice, error)

	// CheckHealth probes a single device. Failures are reported inside
	// the returned status, not as an error.
	CheckHealth(ctx context.Context, address string) HealthStatus

	// SendCommandWithRetry sends a command with up to maxRetries
	// attempts, backing off linearly between attempts. Returns false
	// once the final attempt fails.
	SendCommandWithRetry(ctx context.Context, address, command string, maxRetries int) bool

	// GetStatus reads the device's structured status.
	GetStatus(ctx context.Context, address string) (DeviceStatus, error)

	// ConnectionTimeout is the protocol's pairing/connect budget.
	ConnectionTimeout() time.Duration

	// SupportedCommands lists the command labels this adapter accepts.
	SupportedCommands() []string
}

// DiscoveredDevice describes a device found during a discovery scan.
type DiscoveredDevice struct {
	// Address is the protocol-level address (IP, MAC, network address).
	Address string `json:"address"`

	Name       string            `json:"name"`
	DeviceType device.DeviceType `json:"device_type"`

	// SignalStrength in dBm. More negative is weaker.
	SignalStrength int `json:"signal_strength"`

	FirmwareVersion string `json:"firmware_version"`
}

// HealthStatus is the result of a single device health probe.
type HealthStatus struct {
	Online bool `json:"online"`

	// ResponseTime of the probe round trip.
	ResponseTime time.Duration `json:"response_time"`

	// SignalQuality from 0 (unusable) to 100 (perfect).
	SignalQuality int `json:"signal_quality"`

	LastSeen time.Time `json:"last_seen"`

	// Error describes the probe failure when Online is false.
	Error string `json:"error,omitempty"`
}

// DeviceStatus is a structured status read from a device.
type DeviceStatus struct {
	Connected bool `json:"connected"`
	On        bool `json:"on"`

	// BatteryLevel from 0-100, or -1 when the device has no battery.
	BatteryLevel int `json:"battery_level"`

	// Properties holds protocol-specific extras (IP address, RSSI, LQI).
	Properties map[string]any `json:"properties,omitempty"`
}

// Timing holds the simulated transport latencies for one protocol.
// Real radio I/O is out of scope; these delays stand in for it and are
// driven by configuration so tests can shrink them.
type Timing struct {
	PairDelay      time.Duration
	CommandDelay   time.Duration
	RetryBaseDelay time.Duration
}

// Transport performs the low-level send for an adapter. The default
// transport simulates latency and succeeds; tests substitute failing
// implementations to exercise retry and breaker paths.
type Transport func(ctx context.Context, address, command string) bool

// Logger defines the logging interface used by adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// sleepFunc waits for a duration or until the context ends, whichever
// comes first. Returns the context error on early wake-up.
type sleepFunc func(ctx context.Context, d time.Duration) error

// sleep is the production sleepFunc.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
