// Package notify forwards domain events to the MQTT notification channel.
//
// The forwarder is an ordinary bus subscriber: it serialises each event to
// JSON and publishes it on habitat/event/{type}. Device state changes also
// refresh the retained habitat/device/{id}/state topic. Publish failures
// are logged and surfaced through the bus's handler-error isolation; they
// never disturb other subscribers or the publisher.
package notify
