package adapters

import (
	"context"
	"time"

	"github.com/nerrad567/habitat-core/internal/device"
)

// AdvancedWiFiAdapter is the full-capability Wi-Fi transport: discovery,
// health probes, structured status, retry with linear backoff, and a
// circuit breaker guarding SendCommand.
type AdvancedWiFiAdapter struct {
	timing    Timing
	sleep     sleepFunc
	transport Transport
	breaker   *CircuitBreaker
	logger    Logger
}

// NewAdvancedWiFiAdapter creates an advanced Wi-Fi adapter. Zero timing
// fields fall back to DefaultWiFiTiming; breakerThreshold below 1 falls
// back to DefaultBreakerThreshold.
func NewAdvancedWiFiAdapter(timing Timing, breakerThreshold int) *AdvancedWiFiAdapter {
	return &AdvancedWiFiAdapter{
		timing:  timing.withDefaults(DefaultWiFiTiming),
		sleep:   sleep,
		breaker: NewCircuitBreaker(breakerThreshold),
		logger:  noopLogger{},
	}
}

// SetLogger attaches a logger. A nil logger restores the no-op default.
func (a *AdvancedWiFiAdapter) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	a.logger = l
}

// Breaker exposes the adapter's circuit breaker for inspection and for
// operator-initiated Reset after a transport fix.
func (a *AdvancedWiFiAdapter) Breaker() *CircuitBreaker {
	return a.breaker
}

// Protocol returns device.ProtocolWiFi.
func (a *AdvancedWiFiAdapter) Protocol() device.Protocol {
	return device.ProtocolWiFi
}

// Pair performs the simulated pairing handshake. Pairing is not guarded by
// the breaker; only command traffic counts toward it.
func (a *AdvancedWiFiAdapter) Pair(ctx context.Context, address string) bool {
	a.logger.Debug("pairing over wifi", "address", address)
	if err := a.sleep(ctx, a.timing.PairDelay); err != nil {
		a.logger.Warn("wifi pairing cancelled", "address", address, "error", err)
		return false
	}
	a.logger.Debug("wifi pairing complete", "address", address)
	return true
}

// SendCommand sends a single command through the circuit breaker. When the
// breaker is open the call fails immediately without touching the
// transport.
func (a *AdvancedWiFiAdapter) SendCommand(ctx context.Context, address, command string) bool {
	if err := a.breaker.Allow(); err != nil {
		a.logger.Warn("wifi command blocked",
			"address", address,
			"command", command,
			"error", err,
		)
		return false
	}

	a.logger.Debug("sending wifi command", "address", address, "command", command)
	ok := a.send(ctx, address, command)
	if ok {
		a.breaker.RecordSuccess()
		return true
	}

	a.breaker.RecordFailure()
	if a.breaker.Open() {
		a.logger.Warn("wifi circuit breaker opened",
			"address", address,
			"failures", a.breaker.Failures(),
		)
	}
	return false
}

// SendCommandWithRetry retries SendCommand with linear backoff. Retries go
// through the breaker too, so an open breaker short-circuits the remaining
// attempts without transport delay.
func (a *AdvancedWiFiAdapter) SendCommandWithRetry(ctx context.Context, address, command string, maxRetries int) bool {
	return retryCommand(ctx, func(ctx context.Context) bool {
		return a.SendCommand(ctx, address, command)
	}, maxRetries, a.timing.RetryBaseDelay, a.sleep, a.logger)
}

// Discover scans the local network for Wi-Fi devices.
func (a *AdvancedWiFiAdapter) Discover(ctx context.Context, timeout time.Duration) ([]DiscoveredDevice, error) {
	a.logger.Debug("starting wifi discovery", "timeout", timeout)
	if err := a.sleep(ctx, timeout); err != nil {
		return nil, err
	}

	found := []DiscoveredDevice{
		{
			Address:         "192.168.1.100",
			Name:            "Smart Light 1",
			DeviceType:      device.TypeLight,
			SignalStrength:  -42,
			FirmwareVersion: "2.1.4",
		},
		{
			Address:         "192.168.1.101",
			Name:            "Living Room Purifier",
			DeviceType:      device.TypeAirPurifier,
			SignalStrength:  -55,
			FirmwareVersion: "1.8.0",
		},
	}
	a.logger.Debug("wifi discovery complete", "found", len(found))
	return found, nil
}

// CheckHealth probes a single device. A cancelled probe reports the device
// offline rather than returning an error.
func (a *AdvancedWiFiAdapter) CheckHealth(ctx context.Context, address string) HealthStatus {
	start := time.Now()
	if err := a.sleep(ctx, a.timing.CommandDelay); err != nil {
		return HealthStatus{
			Online: false,
			Error:  err.Error(),
		}
	}
	return HealthStatus{
		Online:        true,
		ResponseTime:  time.Since(start),
		SignalQuality: 95,
		LastSeen:      time.Now().UTC(),
	}
}

// GetStatus reads the device's structured status. Wi-Fi devices are mains
// powered, so BatteryLevel is -1.
func (a *AdvancedWiFiAdapter) GetStatus(ctx context.Context, address string) (DeviceStatus, error) {
	if err := a.sleep(ctx, a.timing.CommandDelay); err != nil {
		return DeviceStatus{}, err
	}
	return DeviceStatus{
		Connected:    true,
		On:           true,
		BatteryLevel: -1,
		Properties: map[string]any{
			"ip_address":      address,
			"ssid":            "HomeNetwork",
			"signal_strength": -45,
		},
	}, nil
}

// ConnectionTimeout is the Wi-Fi pairing/connect budget.
func (a *AdvancedWiFiAdapter) ConnectionTimeout() time.Duration {
	return 10 * time.Second
}

// SupportedCommands lists the commands Wi-Fi devices accept.
func (a *AdvancedWiFiAdapter) SupportedCommands() []string {
	return []string{CmdTurnOn, CmdTurnOff, CmdToggle, CmdGetStatus, CmdSetBrightness, CmdSetColor}
}

func (a *AdvancedWiFiAdapter) send(ctx context.Context, address, command string) bool {
	if a.transport != nil {
		return a.transport(ctx, address, command)
	}
	return a.sleep(ctx, a.timing.CommandDelay) == nil
}
