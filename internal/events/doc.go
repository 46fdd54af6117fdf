// Package events provides the in-process domain event bus for Habitat Core.
//
// A domain event is an immutable fact about something that already
// happened: a device changed state, a rule fired, a sweep ran. The
// orchestrator publishes events after committing the change they describe;
// zero or more handlers consume them.
//
// # Dispatch model
//
// The bus maps an event-type tag to a set of handler closures. No
// reflection is involved: variants are closed and tags are compile-time
// known. Publish resolves handlers at call time and fans out to all of
// them concurrently, joining before it returns. Handler failures are
// isolated per handler and logged; one misbehaving subscriber cannot
// starve its siblings or the publisher.
//
// # Wire contract
//
// Event structs carry JSON tags because subscribers forward them verbatim
// to external sinks (the MQTT notification channel). The serialised shape
// of each variant is a stable contract; changing a field name is a
// breaking change for those consumers.
//
// # Usage
//
//	bus := events.NewBus()
//	bus.SetLogger(log)
//
//	bus.Subscribe(events.TypeDeviceStateChanged, func(ctx context.Context, e events.Event) error {
//	    change := e.(*events.DeviceStateChanged)
//	    log.Info("state changed", "device", change.DeviceName, "on", change.IsOn)
//	    return nil
//	})
//
//	bus.Publish(ctx, events.NewDeviceStateChanged(dev.Clone(), false, "alice", events.ReasonUser))
package events
