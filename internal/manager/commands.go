package manager

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nerrad567/matrix-portal-core/internal/hass"
	"github.com/nerrad567/matrix-portal-core/internal/theme"
)

// Remote command names under {app}/{device}/.
const (
	cmdTheme  = "theme"
	cmdButton = "button"
	cmdTime   = "time"
	cmdDate   = "date"
	cmdBlank  = "blank"
	cmdStatus = "status"
)

// themeNext selects the theme after the active one.
const themeNext = "next"

// handleMessage routes one inbound message.
//
// Entity command topics go to the registry; device topics are remote
// commands. Both are applied under mu. The entity's state publish runs after
// mu is released so a slow broker never holds up the render task. Bad
// payloads are logged and dropped; bus errors end the run-time.
func (rt *runtime) handleMessage(ctx context.Context, topic string, payload []byte) error {
	var change *hass.Change
	if err := rt.locked(func() error {
		var err error
		change, err = rt.route(topic, payload)
		return err
	}); err != nil {
		return err
	}
	return rt.m.registry.Publish(ctx, change)
}

// route applies one message to entity or run-time state. Caller holds mu.
func (rt *runtime) route(topic string, payload []byte) (*hass.Change, error) {
	change, err := rt.m.registry.Apply(topic, payload)
	if errors.Is(err, hass.ErrInvalidPayload) {
		rt.m.logger.Warn("dropping entity command", "run_id", rt.id, "topic", topic, "error", err)
		return nil, nil
	}
	if change != nil || err != nil {
		return change, err
	}

	command, ok := rt.commandName(topic)
	if !ok {
		rt.m.logger.Debug("ignoring message", "run_id", rt.id, "topic", topic)
		return nil, nil
	}

	err = rt.applyCommand(command, strings.TrimSpace(string(payload)))
	if errors.Is(err, ErrInvalidCommand) {
		rt.m.logger.Warn("dropping remote command", "run_id", rt.id, "command", command, "error", err)
		return nil, nil
	}
	return nil, err
}

// commandName extracts {command} from {app}/{device}/{command}.
func (rt *runtime) commandName(topic string) (string, bool) {
	command, ok := strings.CutPrefix(topic, rt.m.topics.DeviceRoot()+"/")
	if !ok || command == "" || strings.Contains(command, "/") {
		return "", false
	}
	return command, true
}

// applyCommand executes one remote command. Caller holds mu.
func (rt *runtime) applyCommand(command, value string) error {
	switch command {
	case cmdTheme:
		return rt.selectTheme(value)

	case cmdButton:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: button %q", ErrInvalidCommand, value)
		}
		rt.state.Press(theme.ButtonID(n))

	case cmdTime, cmdDate, cmdBlank:
		on, err := parseOnOff(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidCommand, command, err)
		}
		switch command {
		case cmdTime:
			rt.state.TimeVisible = on
		case cmdDate:
			rt.state.DateVisible = on
		default:
			rt.state.Blanked = on
		}

	case cmdStatus:
		// Our own availability topic.
		return nil

	default:
		rt.m.logger.Debug("ignoring unknown command", "run_id", rt.id, "command", command)
		return nil
	}

	rt.m.logger.Info("remote command applied", "run_id", rt.id, "command", command, "value", value)
	return nil
}

// selectTheme accepts "next", an index, or a theme name.
func (rt *runtime) selectTheme(value string) error {
	if strings.EqualFold(value, themeNext) {
		return rt.switchTo(rt.next())
	}
	if n, err := strconv.Atoi(value); err == nil {
		if n < 0 || n >= len(rt.themes) {
			return fmt.Errorf("%w: theme index %d out of range [0, %d)", ErrInvalidCommand, n, len(rt.themes))
		}
		return rt.switchTo(n)
	}
	for i, t := range rt.themes {
		if t.Name() == value {
			return rt.switchTo(i)
		}
	}
	return fmt.Errorf("%w: unknown theme %q", ErrInvalidCommand, value)
}

func parseOnOff(value string) (bool, error) {
	switch {
	case strings.EqualFold(value, hass.StateOn):
		return true, nil
	case strings.EqualFold(value, hass.StateOff):
		return false, nil
	default:
		return false, fmt.Errorf("want ON or OFF, got %q", value)
	}
}
