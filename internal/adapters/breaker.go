package adapters

import "sync"

// DefaultBreakerThreshold is the consecutive-failure count at which a
// breaker opens unless configured otherwise.
const DefaultBreakerThreshold = 5

// CircuitBreaker is a failure-counting guard for one adapter instance.
//
// It starts closed with a zero counter. Every transport failure increments
// the counter; any success resets it to zero. Once the counter reaches the
// threshold the breaker opens and stays open until Reset is called — there
// is no automatic half-open probe. While open, guarded calls fail fast
// without touching the transport.
//
// Thread Safety: all methods are safe for concurrent use; SendCommand may
// be invoked from multiple goroutines against the same adapter.
type CircuitBreaker struct {
	mu        sync.Mutex
	failures  int
	threshold int
	open      bool
}

// NewCircuitBreaker creates a closed breaker with the given threshold.
// A threshold below 1 falls back to DefaultBreakerThreshold.
func NewCircuitBreaker(threshold int) *CircuitBreaker {
	if threshold < 1 {
		threshold = DefaultBreakerThreshold
	}
	return &CircuitBreaker{threshold: threshold}
}

// Allow reports whether a call may proceed. Returns ErrCircuitOpen when
// the breaker is open.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.open {
		return ErrCircuitOpen
	}
	return nil
}

// RecordSuccess resets the consecutive-failure counter.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
}

// RecordFailure increments the counter and opens the breaker once the
// threshold is reached.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures++
	if cb.failures >= cb.threshold {
		cb.open = true
	}
}

// Open reports whether the breaker is currently open.
func (cb *CircuitBreaker) Open() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.open
}

// Failures returns the current consecutive-failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Reset closes the breaker and zeroes the counter. This is the only way
// an open breaker closes again; it is intended for operator action after
// the underlying transport has been fixed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.open = false
}
