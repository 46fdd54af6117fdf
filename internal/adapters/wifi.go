package adapters

import (
	"context"

	"github.com/nerrad567/habitat-core/internal/device"
)

// WiFiAdapter is the baseline Wi-Fi transport: pair and send, nothing else.
// Use AdvancedWiFiAdapter for discovery, health checks, retries and the
// circuit breaker.
type WiFiAdapter struct {
	timing    Timing
	sleep     sleepFunc
	transport Transport
	logger    Logger
}

// NewWiFiAdapter creates a baseline Wi-Fi adapter. Zero timing fields fall
// back to DefaultWiFiTiming.
func NewWiFiAdapter(timing Timing) *WiFiAdapter {
	return &WiFiAdapter{
		timing: timing.withDefaults(DefaultWiFiTiming),
		sleep:  sleep,
		logger: noopLogger{},
	}
}

// SetLogger attaches a logger. A nil logger restores the no-op default.
func (a *WiFiAdapter) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	a.logger = l
}

// Protocol returns device.ProtocolWiFi.
func (a *WiFiAdapter) Protocol() device.Protocol {
	return device.ProtocolWiFi
}

// Pair performs the simulated pairing handshake.
func (a *WiFiAdapter) Pair(ctx context.Context, address string) bool {
	a.logger.Debug("pairing over wifi", "address", address)
	if err := a.sleep(ctx, a.timing.PairDelay); err != nil {
		a.logger.Warn("wifi pairing cancelled", "address", address, "error", err)
		return false
	}
	a.logger.Debug("wifi pairing complete", "address", address)
	return true
}

// SendCommand sends a single command over the simulated transport.
func (a *WiFiAdapter) SendCommand(ctx context.Context, address, command string) bool {
	a.logger.Debug("sending wifi command", "address", address, "command", command)
	return a.send(ctx, address, command)
}

func (a *WiFiAdapter) send(ctx context.Context, address, command string) bool {
	if a.transport != nil {
		return a.transport(ctx, address, command)
	}
	return a.sleep(ctx, a.timing.CommandDelay) == nil
}
