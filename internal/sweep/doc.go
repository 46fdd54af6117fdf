// Package sweep schedules the recurring energy-saving sweep.
//
// The schedule is configuration, not core logic: the scheduler only knows
// an interval and an initial startup delay, and calls the orchestrator's
// sweep once per tick. Sweep semantics (which devices, which events) live
// in the orchestrator.
package sweep
