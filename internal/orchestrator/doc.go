// Package orchestrator provides the device orchestrator for Habitat Core.
//
// The orchestrator is the single write path for device state. The web
// layer calls it per user action, the automation handler calls it to apply
// rule effects, and the scheduler calls it for the energy-saving sweep.
// Nothing else mutates device rows.
//
// # Commit-then-publish
//
// Every operation follows the same shape: mutate, persist the device row
// and its history entry in one transaction, and only then publish the
// domain event. A persistence failure rolls the transaction back and
// aborts before any event goes out, so subscribers never observe an event
// describing state that was not committed, and the store never holds a
// state change without its history row.
//
// # Per-device serialization
//
// Operations on different devices run in parallel. Two operations on the
// same device id serialize on a per-device mutex, so a toggle's
// read-modify-write cannot race. Bulk operations take each device's lock
// individually rather than holding a global one.
//
// # Provisioning
//
// AddDevice pairs over the device's protocol before anything is written:
// an unsupported protocol or a failed pairing leaves no partial record.
package orchestrator
