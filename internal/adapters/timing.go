package adapters

import "time"

// Default simulated timings per protocol. Wi-Fi is the fastest transport,
// BLE pairing is slow (scan + pairing request), Zigbee pairing is dominated
// by opening the mesh network for joining.
var (
	DefaultWiFiTiming = Timing{
		PairDelay:      2 * time.Second,
		CommandDelay:   500 * time.Millisecond,
		RetryBaseDelay: time.Second,
	}

	DefaultBluetoothTiming = Timing{
		PairDelay:      5 * time.Second,
		CommandDelay:   800 * time.Millisecond,
		RetryBaseDelay: 2 * time.Second,
	}

	DefaultZigbeeTiming = Timing{
		PairDelay:      5 * time.Second,
		CommandDelay:   600 * time.Millisecond,
		RetryBaseDelay: 1500 * time.Millisecond,
	}
)

// withDefaults fills zero fields from the protocol's default timing.
func (t Timing) withDefaults(d Timing) Timing {
	if t.PairDelay <= 0 {
		t.PairDelay = d.PairDelay
	}
	if t.CommandDelay <= 0 {
		t.CommandDelay = d.CommandDelay
	}
	if t.RetryBaseDelay <= 0 {
		t.RetryBaseDelay = d.RetryBaseDelay
	}
	return t
}
