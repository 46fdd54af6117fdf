package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/habitat-core/internal/adapters"
	"github.com/nerrad567/habitat-core/internal/device"
	"github.com/nerrad567/habitat-core/internal/events"
)

// AdapterProvider builds protocol adapters for device provisioning.
// Satisfied by *adapters.Registry.
type AdapterProvider interface {
	Create(protocol device.Protocol) (adapters.Adapter, error)
}

// Store is the persistence surface the orchestrator writes through.
// Satisfied by *device.Store. The combined mutations are atomic: a state
// change, provisioning or removal persists its device row and history
// entry together or not at all.
type Store interface {
	device.Repository
	device.HistoryRepository
	CommitStateChange(ctx context.Context, id string, isOn bool, entry *device.HistoryEntry) error
	CreateWithHistory(ctx context.Context, d *device.Device, entry *device.HistoryEntry) error
	DeleteWithHistory(ctx context.Context, id string, entry *device.HistoryEntry) error
}

// Logger defines the logging interface used by the orchestrator.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Orchestrator is the single write path for device state. Every mutation
// persists the device row and its history entry in one transaction, then
// publishes the matching domain event; a handler reacting to the event
// always observes committed state if it re-queries, and a persistence
// failure leaves no partial write behind.
//
// Concurrent operations on different devices proceed in parallel; two
// operations on the same device id serialize on a per-device lock so the
// read-modify-write of a toggle cannot race.
type Orchestrator struct {
	store    Store
	bus      *events.Bus
	adapters AdapterProvider
	logger   Logger

	locks deviceLocks
}

// New creates an orchestrator over the given store, event bus and
// adapter provider.
func New(store Store, bus *events.Bus, provider AdapterProvider) *Orchestrator {
	return &Orchestrator{
		store:    store,
		bus:      bus,
		adapters: provider,
		logger:   noopLogger{},
	}
}

// SetLogger attaches a logger. A nil logger restores the no-op default.
func (o *Orchestrator) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	o.logger = l
}

// ToggleDevice flips one device's on/off state on behalf of a named actor.
// Unknown device ids return device.ErrDeviceNotFound and publish nothing.
func (o *Orchestrator) ToggleDevice(ctx context.Context, id, actor string) error {
	unlock := o.locks.lock(id)
	defer unlock()

	d, err := o.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	previous := d.IsOn
	if previous {
		d.TurnOff()
	} else {
		d.TurnOn()
	}

	if err := o.commitStateChange(ctx, d, actor); err != nil {
		return err
	}

	o.logger.Info("device toggled",
		"device_id", d.ID,
		"device_name", d.Name,
		"is_on", d.IsOn,
		"actor", actor,
	)
	o.bus.Publish(ctx, events.NewDeviceStateChanged(d.Clone(), previous, actor, events.ReasonUser))
	return nil
}

// ToggleDevicesByType drives every device of the given type to the target
// state. Devices already there are skipped: they appear neither in the
// returned ids nor in any published event. One DeviceStateChanged with
// reason Automation is published per device actually flipped.
func (o *Orchestrator) ToggleDevicesByType(ctx context.Context, deviceType device.DeviceType, turnOn bool, triggeredBy string) ([]string, error) {
	candidates, err := o.store.ListByType(ctx, deviceType)
	if err != nil {
		return nil, err
	}

	var affected []string
	for i := range candidates {
		d := &candidates[i]
		if d.IsOn == turnOn {
			continue
		}

		changed, err := o.setDeviceState(ctx, d.ID, turnOn, triggeredBy, events.ReasonAutomation)
		if err != nil {
			return affected, err
		}
		if changed {
			affected = append(affected, d.ID)
		}
	}

	if len(affected) > 0 {
		o.logger.Info("bulk toggle applied",
			"device_type", deviceType,
			"turn_on", turnOn,
			"affected", len(affected),
			"triggered_by", triggeredBy,
		)
	}
	return affected, nil
}

// SweepEnergySaving turns off every light currently on. Each light gets
// its own DeviceStateChanged with reason EnergySaving; if at least one
// light was affected, a single EnergySavingTriggered summarises the run.
// A sweep that finds nothing to do publishes nothing.
func (o *Orchestrator) SweepEnergySaving(ctx context.Context) (int, error) {
	lights, err := o.store.ListByType(ctx, device.TypeLight)
	if err != nil {
		return 0, err
	}

	var affected []string
	for i := range lights {
		d := &lights[i]
		if !d.IsOn {
			continue
		}

		changed, err := o.setDeviceState(ctx, d.ID, false, device.ActorSystem, events.ReasonEnergySaving)
		if err != nil {
			return len(affected), err
		}
		if changed {
			affected = append(affected, d.ID)
		}
	}

	if len(affected) > 0 {
		o.logger.Info("energy saving sweep turned off lights", "count", len(affected))
		o.bus.Publish(ctx, events.NewEnergySavingTriggered(affected))
	}
	return len(affected), nil
}

// SetUserPresence records a user arriving or leaving. A departure turns
// off all lights (reason Presence); an arrival changes no device state.
// Publishes one UserPresenceChanged either way.
func (o *Orchestrator) SetUserPresence(ctx context.Context, username string, isHome bool) (int, error) {
	var affected []string

	if !isHome {
		lights, err := o.store.ListByType(ctx, device.TypeLight)
		if err != nil {
			return 0, err
		}
		actor := fmt.Sprintf("Presence: %s", username)
		for i := range lights {
			d := &lights[i]
			if !d.IsOn {
				continue
			}
			changed, err := o.setDeviceState(ctx, d.ID, false, actor, events.ReasonPresence)
			if err != nil {
				return len(affected), err
			}
			if changed {
				affected = append(affected, d.ID)
			}
		}
	}

	o.logger.Info("user presence changed",
		"username", username,
		"is_home", isHome,
		"affected", len(affected),
	)
	o.bus.Publish(ctx, events.NewUserPresenceChanged(username, isHome, len(affected)))
	return len(affected), nil
}

// AddDevice provisions a new device: validate, pair over its protocol,
// then persist and announce it. An unsupported protocol or a failed
// pairing aborts before any record is created.
func (o *Orchestrator) AddDevice(ctx context.Context, d *device.Device, addedBy string) error {
	if err := device.Validate(d); err != nil {
		return err
	}

	adapter, err := o.adapters.Create(d.Protocol)
	if err != nil {
		return err
	}
	if !adapter.Pair(ctx, d.Address) {
		return fmt.Errorf("%w: %s over %s", ErrPairingFailed, d.Address, d.Protocol)
	}

	if d.ID == "" {
		d.ID = "dev-" + uuid.NewString()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = now
	}

	if err := o.store.CreateWithHistory(ctx, d, historyEntry(d, "added", addedBy)); err != nil {
		return err
	}

	o.logger.Info("device added",
		"device_id", d.ID,
		"device_name", d.Name,
		"protocol", d.Protocol,
		"added_by", addedBy,
	)
	o.bus.Publish(ctx, events.NewDeviceAdded(d.Clone(), addedBy))
	return nil
}

// RemoveDevice deletes a device and announces the removal. Unknown ids
// return device.ErrDeviceNotFound.
func (o *Orchestrator) RemoveDevice(ctx context.Context, id, removedBy string) error {
	unlock := o.locks.lock(id)
	defer unlock()

	d, err := o.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := o.store.DeleteWithHistory(ctx, id, historyEntry(d, "removed", removedBy)); err != nil {
		return err
	}

	o.logger.Info("device removed",
		"device_id", d.ID,
		"device_name", d.Name,
		"removed_by", removedBy,
	)
	o.bus.Publish(ctx, events.NewDeviceRemoved(d.ID, d.Name, removedBy))
	return nil
}

// ListDevices returns all devices.
func (o *Orchestrator) ListDevices(ctx context.Context) ([]device.Device, error) {
	return o.store.List(ctx)
}

// GetDevice returns one device by id.
func (o *Orchestrator) GetDevice(ctx context.Context, id string) (*device.Device, error) {
	return o.store.GetByID(ctx, id)
}

// DeviceHistory returns recent history for one device, newest first.
func (o *Orchestrator) DeviceHistory(ctx context.Context, deviceID string, limit int) ([]device.HistoryEntry, error) {
	return o.store.ListByDevice(ctx, deviceID, limit)
}

// RecentHistory returns recent history across all devices, newest first.
func (o *Orchestrator) RecentHistory(ctx context.Context, limit int) ([]device.HistoryEntry, error) {
	return o.store.ListRecent(ctx, limit)
}

// setDeviceState drives one device to the target state under its lock.
// Returns false without error when the device is already there, or when
// it vanished between the caller's listing and the lock.
func (o *Orchestrator) setDeviceState(ctx context.Context, id string, turnOn bool, actor, reason string) (bool, error) {
	unlock := o.locks.lock(id)
	defer unlock()

	d, err := o.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			return false, nil
		}
		return false, err
	}
	if d.IsOn == turnOn {
		return false, nil
	}

	previous := d.IsOn
	if turnOn {
		d.TurnOn()
	} else {
		d.TurnOff()
	}

	if err := o.commitStateChange(ctx, d, actor); err != nil {
		return false, err
	}

	o.bus.Publish(ctx, events.NewDeviceStateChanged(d.Clone(), previous, actor, reason))
	return true, nil
}

// commitStateChange persists the new state and its history entry in one
// transaction. A failure on either statement leaves the device untouched.
// Callers publish only after this returns nil, so no event describes
// unpersisted state.
func (o *Orchestrator) commitStateChange(ctx context.Context, d *device.Device, actor string) error {
	action := "turned off"
	if d.IsOn {
		action = "turned on"
	}
	return o.store.CommitStateChange(ctx, d.ID, d.IsOn, historyEntry(d, action, actor))
}

func historyEntry(d *device.Device, action, actor string) *device.HistoryEntry {
	return &device.HistoryEntry{
		DeviceID:   d.ID,
		DeviceName: d.Name,
		Action:     action,
		Actor:      actor,
	}
}
