package adapters

import "errors"

// Domain errors for the adapters package.
var (
	// ErrUnsupportedProtocol is returned by the registry when no adapter
	// is registered for the requested protocol.
	ErrUnsupportedProtocol = errors.New("adapters: unsupported protocol")

	// ErrCircuitOpen signals that a circuit breaker is open and the call
	// was rejected without touching the transport. Distinct from an
	// ordinary transport failure so callers can avoid burning retry
	// budget against a breaker that will not close on its own.
	ErrCircuitOpen = errors.New("adapters: circuit open")
)
