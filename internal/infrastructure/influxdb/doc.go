// Package influxdb provides InfluxDB connectivity for Habitat Core.
//
// It wraps the official influxdb-client-go v2 library with Habitat-specific
// patterns for connection management, metric writing, and health monitoring.
//
// # Purpose
//
// This package handles time-series data storage for:
//   - Device state transitions (who flipped what, and why)
//   - Energy-saving sweep results
//   - Ad hoc device telemetry (battery levels, signal quality)
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "habitat",
//	    Bucket: "metrics",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteStateChange("light-living", "light", true, "User")
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config settings (batch_size,
// flush_interval). This reduces network overhead for high-frequency
// telemetry data.
package influxdb
