// Package automation provides the event-driven rule handler for Habitat
// Core.
//
// The handler subscribes to DeviceStateChanged and applies a declarative
// rule table: a transition of one device type drives every device of
// another type to a target state. Effects run through the orchestrator, so
// they persist and republish like any user action, and a rule firing with
// a non-empty effect is summarised by one AutomationTriggered event.
//
// # Feedback loops
//
// The bus has no cycle detector. The built-in rules are loop-free because
// they trigger on robot vacuums and act on air purifiers only; the
// republished purifier transitions match no rule. Any new rule must be
// checked the same way before it ships.
package automation
