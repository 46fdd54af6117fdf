package automation

import (
	"context"
	"fmt"

	"github.com/nerrad567/habitat-core/internal/device"
	"github.com/nerrad567/habitat-core/internal/events"
)

// Orchestrator is the surface the rule handler needs: drive every device
// of a type to a target state and learn which ones actually changed.
type Orchestrator interface {
	ToggleDevicesByType(ctx context.Context, deviceType device.DeviceType, turnOn bool, triggeredBy string) ([]string, error)
}

// Logger defines the logging interface used by the rule handler.
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

// Rule maps a state transition of one device type to a bulk effect on
// another. A rule fires when a device of TriggerType transitions to
// WhenOn; it then drives every TargetType device to TargetOn.
//
// Rules must be checked for feedback loops before being added: the bus has
// no cycle detector. A rule is loop-free when its TargetType never appears
// as another rule's TriggerType on the states this rule produces.
type Rule struct {
	Name        string
	TriggerType device.DeviceType
	WhenOn      bool
	TargetType  device.DeviceType
	TargetOn    bool
}

// DefaultRules returns the built-in rule set: a robot vacuum starting its
// run shuts the air purifiers off (the vacuum stirs up the dust they would
// measure), and finishing turns them back on.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "vacuum pauses air purifiers",
			TriggerType: device.TypeRobotVacuum,
			WhenOn:      true,
			TargetType:  device.TypeAirPurifier,
			TargetOn:    false,
		},
		{
			Name:        "vacuum done, resume air purifiers",
			TriggerType: device.TypeRobotVacuum,
			WhenOn:      false,
			TargetType:  device.TypeAirPurifier,
			TargetOn:    true,
		},
	}
}

// Handler reacts to DeviceStateChanged events by applying the rule table.
// Effects go through the orchestrator like any other mutation, so they
// persist, appear in history, and republish DeviceStateChanged for the
// affected devices.
type Handler struct {
	orch   Orchestrator
	bus    *events.Bus
	rules  []Rule
	logger Logger
}

// NewHandler creates a rule handler with the given rule table. A nil or
// empty table falls back to DefaultRules.
func NewHandler(orch Orchestrator, bus *events.Bus, rules []Rule) *Handler {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Handler{
		orch:   orch,
		bus:    bus,
		rules:  rules,
		logger: noopLogger{},
	}
}

// SetLogger attaches a logger. A nil logger restores the no-op default.
func (h *Handler) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	h.logger = l
}

// Register subscribes the handler to DeviceStateChanged on the bus.
func (h *Handler) Register() {
	h.bus.Subscribe(events.TypeDeviceStateChanged, h.handle)
}

func (h *Handler) handle(ctx context.Context, e events.Event) error {
	change, ok := e.(*events.DeviceStateChanged)
	if !ok {
		return fmt.Errorf("automation: unexpected event %T for %s", e, e.EventType())
	}

	for _, rule := range h.rules {
		if rule.TriggerType != change.DeviceType || rule.WhenOn != change.IsOn {
			continue
		}

		triggeredBy := fmt.Sprintf("Automation: %s", change.DeviceName)
		affected, err := h.orch.ToggleDevicesByType(ctx, rule.TargetType, rule.TargetOn, triggeredBy)
		if err != nil {
			h.logger.Warn("rule effect failed",
				"rule", rule.Name,
				"trigger_device", change.DeviceName,
				"error", err,
			)
			return fmt.Errorf("applying rule %q: %w", rule.Name, err)
		}
		if len(affected) == 0 {
			h.logger.Debug("rule fired with nothing to change",
				"rule", rule.Name,
				"trigger_device", change.DeviceName,
			)
			continue
		}

		h.logger.Info("rule applied",
			"rule", rule.Name,
			"trigger_device", change.DeviceName,
			"affected", len(affected),
		)
		h.bus.Publish(ctx, events.NewAutomationTriggered(rule.Name, change.DeviceName, affected))
	}
	return nil
}
