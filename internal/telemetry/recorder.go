package telemetry

import (
	"context"

	"github.com/nerrad567/habitat-core/internal/events"
)

// Writer is the time-series surface the recorder needs. Satisfied by
// *influxdb.Client. Writes are fire-and-forget; the backend batches them.
type Writer interface {
	WriteStateChange(deviceID, deviceType string, isOn bool, reason string)
	WriteSweepResult(lightsOff int)
}

// Recorder mirrors domain events into the time-series store. It is an
// ordinary bus subscriber and never fails a publish: the store is
// best-effort telemetry, not the system of record.
type Recorder struct {
	writer Writer
}

// NewRecorder creates a recorder over the given writer.
func NewRecorder(w Writer) *Recorder {
	return &Recorder{writer: w}
}

// Register subscribes the recorder to the event types it mirrors.
func (r *Recorder) Register(bus *events.Bus) {
	bus.Subscribe(events.TypeDeviceStateChanged, r.recordStateChange)
	bus.Subscribe(events.TypeEnergySavingTriggered, r.recordSweep)
}

func (r *Recorder) recordStateChange(_ context.Context, e events.Event) error {
	change, ok := e.(*events.DeviceStateChanged)
	if !ok {
		return nil
	}
	r.writer.WriteStateChange(change.DeviceID, string(change.DeviceType), change.IsOn, change.Reason)
	return nil
}

func (r *Recorder) recordSweep(_ context.Context, e events.Event) error {
	sweep, ok := e.(*events.EnergySavingTriggered)
	if !ok {
		return nil
	}
	r.writer.WriteSweepResult(sweep.Count)
	return nil
}
