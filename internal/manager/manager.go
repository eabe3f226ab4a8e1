package manager

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nerrad567/matrix-portal-core/internal/actor"
	"github.com/nerrad567/matrix-portal-core/internal/bus"
	"github.com/nerrad567/matrix-portal-core/internal/display"
	"github.com/nerrad567/matrix-portal-core/internal/hass"
	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/config"
	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/matrix-portal-core/internal/input"
	"github.com/nerrad567/matrix-portal-core/internal/theme"
	"github.com/nerrad567/matrix-portal-core/internal/timesync"
)

// qosReliable is used for the device command subscription.
const qosReliable byte = 1

// defaultLabelColor is the labels light colour before any command.
var defaultLabelColor = map[string]any{"r": 0x11, "g": 0x11, "b": 0x11}

// Logger defines the logging interface used by the Manager.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Enabled(ctx context.Context, level slog.Level) bool
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func (noopLogger) Enabled(context.Context, slog.Level) bool { return false }

// Telemetry receives frame and entity samples. *influxdb.Client satisfies it.
type Telemetry interface {
	WriteFrameStats(deviceID string, stats influxdb.FrameStats)
	WriteEntityState(deviceID, entity string, state map[string]any)
}

// Options configures a Manager.
type Options struct {
	// Config supplies device, runtime, matrix, buttons, time and mqtt
	// settings. Nil uses config.Default().
	Config *config.Config

	// Themes is the ordered, fixed theme list. It must not be empty.
	Themes []theme.Factory

	// Deps are handed to every theme factory.
	Deps theme.Deps

	Bus      bus.Bus
	Registry *hass.Registry
	Topics   mqtt.Topics

	// Display defaults to a null surface, Keys to no buttons.
	Display display.Surface
	Keys    input.Keys

	// Clock defaults to a host clock in the configured timezone.
	Clock *timesync.Clock

	// Time is the time service. Nil disables synchronisation.
	Time timesync.Source

	// Telemetry is optional.
	Telemetry Telemetry

	Logger Logger
}

// Manager owns the themes and supervises run-time instances.
type Manager struct {
	cfg       *config.Config
	factories []theme.Factory
	deps      theme.Deps

	bus       bus.Bus
	registry  *hass.Registry
	topics    mqtt.Topics
	display   display.Surface
	keys      input.Keys
	clock     *timesync.Clock
	source    timesync.Source
	telemetry Telemetry
	logger    Logger

	current  atomic.Pointer[runtime]
	restarts atomic.Uint64
}

// New validates opts, registers the power and labels entities and
// subscribes the device command topics.
//
// Parameters:
//   - ctx: Context for entity registration (history lookups)
//   - opts: Manager options
//
// Returns:
//   - *Manager: Ready to Run
//   - error: ErrNoThemes, ErrNoBus, or a registration error
func New(ctx context.Context, opts Options) (*Manager, error) {
	if len(opts.Themes) == 0 {
		return nil, ErrNoThemes
	}
	if opts.Bus == nil || opts.Registry == nil {
		return nil, ErrNoBus
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	m := &Manager{
		cfg:       cfg,
		factories: append([]theme.Factory(nil), opts.Themes...),
		deps:      opts.Deps,
		bus:       opts.Bus,
		registry:  opts.Registry,
		topics:    opts.Topics,
		display:   opts.Display,
		keys:      opts.Keys,
		clock:     opts.Clock,
		source:    opts.Time,
		telemetry: opts.Telemetry,
		logger:    opts.Logger,
	}
	if m.display == nil {
		m.display = display.NewNull()
	}
	if m.keys == nil {
		m.keys = input.Noop{}
	}
	if m.clock == nil {
		m.clock = timesync.NewClock(cfg.Location())
	}
	if m.logger == nil {
		m.logger = noopLogger{}
	}
	if m.deps.Width == 0 || m.deps.Height == 0 {
		m.deps.Width, m.deps.Height = cfg.Matrix.Width, cfg.Matrix.Height
	}
	if m.deps.Rand == nil {
		m.deps.Rand = actor.NewRand(uint64(time.Now().UnixNano()))
	}
	if m.deps.Now == nil {
		m.deps.Now = m.clock.Now
	}

	if m.telemetry != nil {
		m.registry.SetOnChange(m.entityChanged)
	}

	if cfg.HASS.Enabled {
		if err := m.registerEntities(ctx); err != nil {
			return nil, err
		}
	}
	if err := m.bus.Subscribe(m.topics.DeviceAll(), qosReliable); err != nil {
		return nil, fmt.Errorf("subscribing %s: %w", m.topics.DeviceAll(), err)
	}

	return m, nil
}

// registerEntities announces the power switch and the labels light.
func (m *Manager) registerEntities(ctx context.Context) error {
	if _, err := m.registry.Register(ctx, theme.EntityPower, hass.ClassSwitch, nil,
		hass.State{hass.KeyState: hass.StateOn},
	); err != nil {
		return fmt.Errorf("registering %s: %w", theme.EntityPower, err)
	}

	labelOptions := map[string]any{
		"brightness":            true,
		"color_mode":            true,
		"supported_color_modes": []string{"rgb"},
	}
	if _, err := m.registry.Register(ctx, theme.EntityLabels, hass.ClassLight, labelOptions,
		hass.State{
			hass.KeyState:      hass.StateOn,
			hass.KeyColor:      defaultLabelColor,
			hass.KeyBrightness: 255,
		},
	); err != nil {
		return fmt.Errorf("registering %s: %w", theme.EntityLabels, err)
	}
	return nil
}

// entityChanged forwards entity writes to telemetry.
func (m *Manager) entityChanged(name string, state hass.State) {
	m.telemetry.WriteEntityState(m.cfg.Device.ID, name, state)
}

// Run supervises run-time instances until ctx is cancelled.
//
// Every instance starts from fresh state with theme 0 active. When one
// ends with an error or a recovered panic, Run logs it, waits
// runtime.restart_delay and starts another.
func (m *Manager) Run(ctx context.Context) error {
	for {
		rt := m.newRuntime()
		m.current.Store(rt)

		m.logger.Info("run-time starting",
			"run_id", rt.id,
			"restarts", m.restarts.Load(),
		)

		err := rt.run(ctx)

		if ctx.Err() != nil {
			m.logger.Info("run-time stopped", "run_id", rt.id)
			return nil
		}

		attempt := m.restarts.Add(1)
		m.logger.Warn("run-time exited unexpectedly",
			"run_id", rt.id,
			"error", err,
			"attempt", attempt,
			"delay", m.cfg.Runtime.RestartDelay,
		)

		select {
		case <-ctx.Done():
			m.logger.Info("context cancelled, not restarting", "run_id", rt.id)
			return nil
		case <-time.After(m.cfg.Runtime.RestartDelay):
		}
	}
}

// Restarts returns how many run-time instances have faulted.
func (m *Manager) Restarts() uint64 {
	return m.restarts.Load()
}

// Snapshot is a point-in-time view of the manager for status reporting.
type Snapshot struct {
	RunID       string                `json:"run_id,omitempty"`
	Restarts    uint64                `json:"restarts"`
	Frame       uint64                `json:"frame"`
	Theme       string                `json:"theme,omitempty"`
	ThemeIndex  int                   `json:"theme_index"`
	Themes      []string              `json:"themes,omitempty"`
	Blanked     bool                  `json:"blanked"`
	TimeVisible bool                  `json:"time_visible"`
	DateVisible bool                  `json:"date_visible"`
	ClockSynced bool                  `json:"clock_synced"`
	LastSync    *time.Time            `json:"last_sync,omitempty"`
	Clock       time.Time             `json:"clock"`
	Entities    map[string]hass.State `json:"entities"`
}

// Snapshot returns the current status. Safe for concurrent use.
func (m *Manager) Snapshot() Snapshot {
	snap := Snapshot{
		Restarts: m.restarts.Load(),
		Clock:    m.clock.Now(),
		Entities: m.registry.Snapshot(),
	}
	if last, ok := m.clock.LastSync(); ok {
		snap.ClockSynced = true
		snap.LastSync = &last
	}

	rt := m.current.Load()
	if rt == nil {
		return snap
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	snap.RunID = rt.id
	snap.Frame = rt.state.Frame
	snap.ThemeIndex = rt.state.ActiveTheme
	snap.Blanked = rt.state.Blanked
	snap.TimeVisible = rt.state.TimeVisible
	snap.DateVisible = rt.state.DateVisible
	snap.Themes = make([]string, len(rt.themes))
	for i, t := range rt.themes {
		snap.Themes[i] = t.Name()
	}
	snap.Theme = snap.Themes[rt.state.ActiveTheme]
	return snap
}
