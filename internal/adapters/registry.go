package adapters

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nerrad567/habitat-core/internal/device"
)

// Factory builds a fresh adapter instance for a protocol. The registry
// never caches instances: each Create call yields a new adapter with its
// own breaker state.
type Factory func() Adapter

// Registry maps protocol names to adapter factories. Lookups are
// case-insensitive; registration is first-wins so a boot-time default
// cannot be silently replaced later.
type Registry struct {
	mu        sync.RWMutex
	factories []factoryEntry
	logger    Logger
}

type factoryEntry struct {
	protocol device.Protocol
	factory  Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{logger: noopLogger{}}
}

// NewDefaultRegistry creates a registry with the advanced adapter for each
// supported protocol, wired to the given timings and breaker threshold.
func NewDefaultRegistry(wifi, bluetooth, zigbee Timing, breakerThreshold int) *Registry {
	r := NewRegistry()
	r.Register(device.ProtocolWiFi, func() Adapter {
		return NewAdvancedWiFiAdapter(wifi, breakerThreshold)
	})
	r.Register(device.ProtocolBluetooth, func() Adapter {
		return NewAdvancedBluetoothAdapter(bluetooth, breakerThreshold)
	})
	r.Register(device.ProtocolZigbee, func() Adapter {
		return NewZigbeeAdapter(zigbee, breakerThreshold)
	})
	return r
}

// SetLogger attaches a logger. A nil logger restores the no-op default.
func (r *Registry) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	r.mu.Lock()
	r.logger = l
	r.mu.Unlock()
}

// Register adds a factory for a protocol. When the protocol is already
// registered (compared case-insensitively) the existing factory wins and
// the new one is dropped.
func (r *Registry) Register(protocol device.Protocol, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.factories {
		if strings.EqualFold(string(e.protocol), string(protocol)) {
			r.logger.Warn("adapter factory already registered, keeping existing",
				"protocol", protocol,
			)
			return
		}
	}
	r.factories = append(r.factories, factoryEntry{protocol: protocol, factory: factory})
}

// Create builds a new adapter for the protocol. The lookup is
// case-insensitive. Returns ErrUnsupportedProtocol when no factory
// matches.
func (r *Registry) Create(protocol device.Protocol) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.factories {
		if strings.EqualFold(string(e.protocol), string(protocol)) {
			return e.factory(), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedProtocol, protocol)
}

// Supports reports whether a factory exists for the protocol.
func (r *Registry) Supports(protocol device.Protocol) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.factories {
		if strings.EqualFold(string(e.protocol), string(protocol)) {
			return true
		}
	}
	return false
}

// ListProtocols returns the registered protocols in registration order.
func (r *Registry) ListProtocols() []device.Protocol {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]device.Protocol, 0, len(r.factories))
	for _, e := range r.factories {
		out = append(out, e.protocol)
	}
	return out
}
