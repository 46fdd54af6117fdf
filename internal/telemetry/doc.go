// Package telemetry mirrors domain events into the time-series store.
//
// The recorder subscribes to state changes and sweep summaries and writes
// one point per event. It is best-effort: the time-series store is an
// analytics sink, not the system of record, so nothing here can fail a
// device operation.
package telemetry
