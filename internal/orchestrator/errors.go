package orchestrator

import "errors"

// ErrPairingFailed is returned by AddDevice when the protocol adapter
// could not pair with the device. No device record exists after this
// error.
var ErrPairingFailed = errors.New("orchestrator: device pairing failed")
