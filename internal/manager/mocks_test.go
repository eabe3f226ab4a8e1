package manager

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nerrad567/matrix-portal-core/internal/bus"
	"github.com/nerrad567/matrix-portal-core/internal/hass"
	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/config"
	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/matrix-portal-core/internal/theme"
)

// MockLogger implements Logger and records debug messages.
type MockLogger struct {
	debug bool

	mu     sync.Mutex
	debugs []string
}

func (l *MockLogger) Debug(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugs = append(l.debugs, msg)
}

func (l *MockLogger) Info(string, ...any)  {}
func (l *MockLogger) Warn(string, ...any)  {}
func (l *MockLogger) Error(string, ...any) {}

func (l *MockLogger) Enabled(_ context.Context, level slog.Level) bool {
	return level > slog.LevelDebug || l.debug
}

func (l *MockLogger) count(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.debugs {
		if m == msg {
			n++
		}
	}
	return n
}

// MockBus implements bus.Bus with an in-memory inbox.
type MockBus struct {
	mu            sync.Mutex
	published     []bus.Message
	subscriptions []string
	inbox         []bus.Message

	gate    chan struct{}
	entered chan struct{}
}

func (b *MockBus) Publish(topic string, payload []byte, _ bool, _ byte) error {
	b.mu.Lock()
	b.published = append(b.published, bus.Message{Topic: topic, Payload: payload})
	gate, entered := b.gate, b.entered
	b.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		<-gate
	}
	return nil
}

// stall makes every later Publish block until the returned release is
// called. Each blocked Publish first signals on entered.
func (b *MockBus) stall() (entered <-chan struct{}, release func()) {
	gate := make(chan struct{})
	in := make(chan struct{}, 8)
	b.mu.Lock()
	b.gate, b.entered = gate, in
	b.mu.Unlock()

	var once sync.Once
	return in, func() { once.Do(func() { close(gate) }) }
}

func (b *MockBus) Subscribe(topic string, _ byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions = append(b.subscriptions, topic)
	return nil
}

func (b *MockBus) Poll() (bus.Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.inbox) == 0 {
		return bus.Message{}, false
	}
	msg := b.inbox[0]
	b.inbox = b.inbox[1:]
	return msg, true
}

func (b *MockBus) deliver(topic, payload string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inbox = append(b.inbox, bus.Message{Topic: topic, Payload: []byte(payload)})
}

func (b *MockBus) subscribed(topic string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subscriptions {
		if s == topic {
			return true
		}
	}
	return false
}

// MockDisplay records presented frames.
type MockDisplay struct {
	mu     sync.Mutex
	frames []*image.RGBA
}

func (d *MockDisplay) Present(frame *image.RGBA) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, frame)
	return nil
}

func (d *MockDisplay) Close() error { return nil }

func (d *MockDisplay) last() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.frames) == 0 {
		return nil
	}
	return d.frames[len(d.frames)-1]
}

func (d *MockDisplay) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames)
}

// MockKeys reports queued presses.
type MockKeys struct {
	mu      sync.Mutex
	pending []theme.ButtonID
}

func (k *MockKeys) Poll() (theme.ButtonID, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.pending) == 0 {
		return 0, false
	}
	id := k.pending[0]
	k.pending = k.pending[1:]
	return id, true
}

func (k *MockKeys) Close() error { return nil }

// MockTelemetry records telemetry writes.
type MockTelemetry struct {
	mu       sync.Mutex
	frames   []influxdb.FrameStats
	entities []string
}

func (t *MockTelemetry) WriteFrameStats(_ string, stats influxdb.FrameStats) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frames = append(t.frames, stats)
}

func (t *MockTelemetry) WriteEntityState(_, entity string, _ map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entities = append(t.entities, entity)
}

// MockSource returns a fixed timestamp or error.
type MockSource struct {
	raw string
	err error
}

func (s MockSource) Fetch(context.Context) (string, error) {
	return s.raw, s.err
}

// tracker observes every fakeTheme built by a factory, across run-times.
type tracker struct {
	setups    atomic.Int64
	teardowns atomic.Int64
	ticks     atomic.Int64
	actions   atomic.Int64

	// panics is the number of Tick calls that should panic.
	panics atomic.Int64

	setupErr error
}

// fakeTheme fills the frame with a solid colour.
type fakeTheme struct {
	name string
	fill color.RGBA
	t    *tracker
	w, h int
}

func (f *fakeTheme) Name() string { return f.name }

func (f *fakeTheme) Setup() error {
	f.t.setups.Add(1)
	return f.t.setupErr
}

func (f *fakeTheme) Teardown() { f.t.teardowns.Add(1) }

func (f *fakeTheme) Tick(theme.State, theme.EntityReader) {
	f.t.ticks.Add(1)
	if f.t.panics.Load() > 0 {
		f.t.panics.Add(-1)
		panic("fake theme exploded")
	}
}

func (f *fakeTheme) Render() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.w, f.h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = f.fill.R, f.fill.G, f.fill.B, f.fill.A
	}
	return img
}

func (f *fakeTheme) OnButtonAction() { f.t.actions.Add(1) }

func fakeFactory(name string, fill color.RGBA, t *tracker) theme.Factory {
	return func(deps theme.Deps) theme.Theme {
		return &fakeTheme{name: name, fill: fill, t: t, w: deps.Width, h: deps.Height}
	}
}

var (
	red  = color.RGBA{R: 0xff, A: 0xff}
	blue = color.RGBA{B: 0xff, A: 0xff}
)

// fixture bundles a manager with its mocks.
type fixture struct {
	m       *Manager
	bus     *MockBus
	display *MockDisplay
	keys    *MockKeys
	topics  mqtt.Topics
	first   *tracker
	second  *tracker
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Device.ID = "kitchen"
	cfg.Runtime.RestartDelay = time.Millisecond
	cfg.Runtime.DebugEveryFrames = 0
	cfg.Matrix.FrameDelay = time.Millisecond
	cfg.MQTT.PollInterval = time.Millisecond
	cfg.Buttons.PollInterval = time.Millisecond
	cfg.Time.Enabled = false
	cfg.InfluxDB.EveryFrames = 0
	return cfg
}

func newFixture(t *testing.T, cfg *config.Config, mutate func(*Options)) *fixture {
	t.Helper()

	f := &fixture{
		bus:     &MockBus{},
		display: &MockDisplay{},
		keys:    &MockKeys{},
		topics:  mqtt.NewTopics("matrixportal", "kitchen", "homeassistant"),
		first:   &tracker{},
		second:  &tracker{},
	}

	opts := Options{
		Config: cfg,
		Themes: []theme.Factory{
			fakeFactory("first", red, f.first),
			fakeFactory("second", blue, f.second),
		},
		Bus:      f.bus,
		Registry: hass.NewRegistry(f.bus, f.topics),
		Topics:   f.topics,
		Display:  f.display,
		Keys:     f.keys,
	}
	if mutate != nil {
		mutate(&opts)
	}

	m, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	f.m = m
	return f
}

// startRuntime builds a run-time with the first theme set up, without
// starting its tasks.
func (f *fixture) startRuntime(t *testing.T) *runtime {
	t.Helper()
	rt := f.m.newRuntime()
	f.m.current.Store(rt)
	if err := rt.setupActive(); err != nil {
		t.Fatalf("setupActive() error = %v", err)
	}
	return rt
}

func pixel(img *image.RGBA) color.RGBA {
	return img.RGBAAt(0, 0)
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

var errFetch = errors.New("time service unreachable")
