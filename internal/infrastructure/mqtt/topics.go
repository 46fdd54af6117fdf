package mqtt

import "fmt"

// Topic prefixes for the Habitat MQTT hierarchy.
//
// All topics follow the scheme: habitat/{category}/{identifier...}
const (
	// TopicPrefix is the base for all Habitat topics.
	TopicPrefix = "habitat"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "habitat/system"
)

// Topics provides builders for Habitat MQTT topics. Using these helpers
// keeps topic naming consistent across the codebase.
//
//	topics := mqtt.Topics{}
//	eventTopic := topics.Event("device_state_changed")
//	// Returns: "habitat/event/device_state_changed"
type Topics struct{}

// Event returns the topic for forwarded domain events, one subtopic per
// event type.
//
// Example: habitat/event/device_state_changed
func (Topics) Event(eventType string) string {
	return fmt.Sprintf("%s/event/%s", TopicPrefix, eventType)
}

// DeviceState returns the canonical per-device state topic. Published
// retained so late subscribers see the current state.
//
// Example: habitat/device/light-living/state
func (Topics) DeviceState(deviceID string) string {
	return fmt.Sprintf("%s/device/%s/state", TopicPrefix, deviceID)
}

// SystemStatus returns the system status topic used for online/offline
// announcements and the LWT.
//
// Example: habitat/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllEvents returns a pattern matching every forwarded domain event.
//
// Pattern: habitat/event/+
func (Topics) AllEvents() string {
	return fmt.Sprintf("%s/event/+", TopicPrefix)
}

// AllDeviceStates returns a pattern matching all device state topics.
//
// Pattern: habitat/device/+/state
func (Topics) AllDeviceStates() string {
	return fmt.Sprintf("%s/device/+/state", TopicPrefix)
}

// AllTopics returns a pattern matching all Habitat topics. Use with
// caution, this receives ALL traffic.
//
// Pattern: habitat/#
func (Topics) AllTopics() string {
	return "habitat/#"
}
