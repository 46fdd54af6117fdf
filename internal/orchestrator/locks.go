package orchestrator

import "sync"

// deviceLocks hands out one mutex per device id. Locks are created on
// first use and never discarded; the population of device ids is small
// and bounded by the installation size.
type deviceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// lock acquires the mutex for a device id and returns its unlock func.
func (dl *deviceLocks) lock(id string) func() {
	dl.mu.Lock()
	if dl.locks == nil {
		dl.locks = make(map[string]*sync.Mutex)
	}
	m, ok := dl.locks[id]
	if !ok {
		m = &sync.Mutex{}
		dl.locks[id] = m
	}
	dl.mu.Unlock()

	m.Lock()
	return m.Unlock
}
