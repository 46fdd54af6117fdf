// Package mqtt provides MQTT client connectivity for Habitat Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Habitat uses MQTT as its outbound notification channel: domain events
// and canonical device state are forwarded to the broker, where mobile
// apps, wall panels and other services consume them without coupling to
// the core process.
//
//	Habitat Core → MQTT Broker → apps / panels / integrations
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topic := mqtt.Topics{}.Event("device_state_changed")
//	client.Publish(topic, payload, 1, false)
package mqtt
