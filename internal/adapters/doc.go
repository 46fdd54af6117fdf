// Package adapters provides the protocol adapter layer for Habitat Core.
//
// An adapter owns the transport conversation with devices speaking one
// protocol (Wi-Fi, Bluetooth LE, Zigbee). The orchestrator obtains
// adapters through the Registry and never talks to a protocol directly.
//
// # Capability tiers
//
// Every adapter satisfies the baseline Adapter contract: Protocol, Pair,
// SendCommand. Richer implementations also satisfy AdvancedAdapter, which
// adds discovery, health probes, structured status, retry with linear
// backoff, and a per-instance circuit breaker. Callers detect the richer
// tier with an interface assertion; there is no capability flag to keep in
// sync with behaviour.
//
// # Failure semantics
//
// Transport outcomes are booleans. Radio links fail routinely, so a failed
// pair or command is an expected result, not an error condition. The two
// sentinel errors in this package cover the cases that are NOT ordinary
// transport failures: ErrUnsupportedProtocol from the registry, and
// ErrCircuitOpen from a breaker rejecting calls without touching the
// transport.
//
// # Circuit breaker
//
// Each advanced adapter instance carries its own CircuitBreaker. Five
// consecutive failures (configurable) open it; while open, SendCommand
// fails fast. An open breaker never closes on its own — recovery is an
// explicit Reset after the underlying fault is fixed.
//
// # Simulated transport
//
// Real radio I/O is out of scope. Delays stand in for transport latency
// and come from configuration; the transport and sleep functions are
// injectable so tests run without waiting.
//
// Thread Safety: adapters, breakers and the registry are safe for
// concurrent use.
package adapters
