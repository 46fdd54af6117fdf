package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteStateChange records a device on/off transition.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - deviceID: Unique identifier for the device
//   - deviceType: Device type tag (e.g. "light", "thermostat")
//   - isOn: The new state
//   - reason: Why the state changed ("User", "Automation", "EnergySaving")
//
// Example:
//
//	client.WriteStateChange("light-living", "light", true, "User")
func (c *Client) WriteStateChange(deviceID, deviceType string, isOn bool, reason string) {
	if !c.IsConnected() {
		return
	}

	on := 0
	if isOn {
		on = 1
	}

	point := write.NewPoint(
		"device_state",
		map[string]string{
			"device_id":   deviceID,
			"device_type": deviceType,
			"reason":      reason,
		},
		map[string]interface{}{
			"is_on": on,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSweepResult records one energy-saving sweep run.
//
// Parameters:
//   - lightsOff: How many lights the sweep turned off (0 for a no-op run)
func (c *Client) WriteSweepResult(lightsOff int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"energy_saving",
		nil,
		map[string]interface{}{
			"lights_off": lightsOff,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteDeviceMetric writes a single device measurement.
//
// Used for ad hoc device telemetry (battery levels, signal quality).
//
// Example:
//
//	client.WriteDeviceMetric("vacuum-01", "battery_percent", 75)
func (c *Client) WriteDeviceMetric(deviceID string, measurement string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_metrics",
		map[string]string{
			"device_id":   deviceID,
			"measurement": measurement,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "core-01"},
//	    map[string]interface{}{"cpu_percent": 45.2, "memory_mb": 512})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
