package manager

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/matrix-portal-core/internal/overlay"
	"github.com/nerrad567/matrix-portal-core/internal/theme"
	"github.com/nerrad567/matrix-portal-core/internal/timesync"
)

// minYield is the sleep used when a configured interval is not positive.
const minYield = time.Millisecond

// runtime is one instance of the scheduler. All fields below mu are guarded
// by it; the sample fields are owned by the render task.
type runtime struct {
	m  *Manager
	id string

	mu     sync.Mutex
	state  theme.State
	themes []theme.Theme

	sampleFrame uint64
	sampleAt    time.Time
}

// newRuntime builds fresh state and fresh theme instances.
func (m *Manager) newRuntime() *runtime {
	themes := make([]theme.Theme, len(m.factories))
	for i, f := range m.factories {
		themes[i] = f(m.deps)
	}
	return &runtime{
		m:      m,
		id:     uuid.NewString(),
		state:  theme.NewState(),
		themes: themes,
	}
}

// run presents the splash, activates theme 0 and runs the tasks until one
// fails or ctx is cancelled.
func (rt *runtime) run(ctx context.Context) error {
	splash := overlay.Splash(rt.m.deps.Width, rt.m.deps.Height, "")
	if err := rt.m.display.Present(splash); err != nil {
		return fmt.Errorf("presenting splash: %w", err)
	}

	if err := protect("setup", func() error { return rt.locked(rt.setupActive) }); err != nil {
		return err
	}
	defer rt.teardown()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard("timesync", func() error { return rt.syncTime(gctx) }))
	g.Go(guard("buttons", func() error { return rt.pollButtons(gctx) }))
	g.Go(guard("bus", func() error { return rt.serviceBus(gctx) }))
	g.Go(guard("render", func() error { return rt.render(gctx) }))
	return g.Wait()
}

// teardown releases the active theme.
func (rt *runtime) teardown() {
	_ = protect("teardown", func() error { //nolint:errcheck // Best effort on exit path
		return rt.locked(func() error {
			rt.themes[rt.state.ActiveTheme].Teardown()
			return nil
		})
	})
}

// locked runs fn holding mu. The lock is released even if fn panics.
func (rt *runtime) locked(fn func() error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return fn()
}

// setupActive sets up the active theme. Caller holds mu.
func (rt *runtime) setupActive() error {
	t := rt.themes[rt.state.ActiveTheme]
	if err := t.Setup(); err != nil {
		return fmt.Errorf("setting up theme %s: %w", t.Name(), err)
	}
	return nil
}

// switchTo tears the active theme down and sets up theme idx. Caller holds mu.
func (rt *runtime) switchTo(idx int) error {
	if idx == rt.state.ActiveTheme {
		return nil
	}
	prev := rt.themes[rt.state.ActiveTheme]
	prev.Teardown()
	rt.state.ActiveTheme = idx
	if err := rt.setupActive(); err != nil {
		return err
	}
	rt.m.logger.Info("theme changed",
		"run_id", rt.id,
		"from", prev.Name(),
		"to", rt.themes[idx].Name(),
		"index", idx,
	)
	return nil
}

// next returns the index after the active theme, wrapping.
func (rt *runtime) next() int {
	return (rt.state.ActiveTheme + 1) % len(rt.themes)
}

// syncTime fetches the time every time.interval. A failed fetch ends the
// run-time.
func (rt *runtime) syncTime(ctx context.Context) error {
	cfg := rt.m.cfg.Time
	if rt.m.source == nil || !cfg.Enabled {
		return nil
	}
	for {
		fields, err := timesync.Sync(ctx, rt.m.source, rt.m.clock)
		if err != nil {
			return fmt.Errorf("time sync: %w", err)
		}
		rt.m.logger.Info("clock synchronised",
			"run_id", rt.id,
			"time", fields.Time(rt.m.clock.Location()),
			"offset", rt.m.clock.Offset(),
		)
		if err := sleep(ctx, cfg.Interval); err != nil {
			return err
		}
	}
}

// pollButtons records at most one pending press.
func (rt *runtime) pollButtons(ctx context.Context) error {
	for {
		if id, ok := rt.m.keys.Poll(); ok {
			_ = rt.locked(func() error { //nolint:errcheck // Press cannot fail
				rt.state.Press(id)
				return nil
			})
			rt.m.logger.Debug("button pressed", "run_id", rt.id, "button", id)
		}
		if err := sleep(ctx, rt.m.cfg.Buttons.PollInterval); err != nil {
			return err
		}
	}
}

// serviceBus drains the inbox and dispatches each message under the lock.
func (rt *runtime) serviceBus(ctx context.Context) error {
	for {
		for {
			msg, ok := rt.m.bus.Poll()
			if !ok {
				break
			}
			if err := rt.handleMessage(ctx, msg.Topic, msg.Payload); err != nil {
				return err
			}
		}
		if err := sleep(ctx, rt.m.cfg.MQTT.PollInterval); err != nil {
			return err
		}
	}
}

// render ticks once per frame.
func (rt *runtime) render(ctx context.Context) error {
	rt.sampleAt = time.Now()
	for {
		if err := rt.tick(ctx); err != nil {
			return err
		}
		if err := sleep(ctx, rt.m.cfg.Matrix.FrameDelay); err != nil {
			return err
		}
	}
}

// tick advances the active theme one frame, presents the result and
// consumes the pending button.
func (rt *runtime) tick(ctx context.Context) error {
	start := time.Now()
	frame := image.NewRGBA(rt.m.deps.Bounds())

	var sample frameSample
	if err := rt.locked(func() error {
		var err error
		sample, err = rt.step(frame)
		return err
	}); err != nil {
		return err
	}

	if err := rt.m.display.Present(frame); err != nil {
		return fmt.Errorf("presenting frame: %w", err)
	}

	sample.took = time.Since(start)
	rt.report(ctx, sample)
	return nil
}

// step composes one frame into dst and advances the state. Caller holds mu.
func (rt *runtime) step(dst *image.RGBA) (frameSample, error) {
	rt.state.Now = rt.m.clock.Now()
	state := rt.state
	active := rt.themes[state.ActiveTheme]

	active.Tick(state, rt.m.registry)
	rendered := active.Render()
	if rendered != nil && rt.m.registry.IsOn(theme.EntityPower) && !state.Blanked {
		compose(dst, rendered)
	}

	err := rt.consumeButton()
	rt.state.Frame++
	return frameSample{
		frame: rt.state.Frame,
		index: rt.state.ActiveTheme,
		theme: rt.themes[rt.state.ActiveTheme].Name(),
	}, err
}

// consumeButton applies and clears the pending button. Caller holds mu.
func (rt *runtime) consumeButton() error {
	id, ok := rt.state.TakeButton()
	if !ok {
		return nil
	}
	switch int(id) {
	case rt.m.cfg.Buttons.Action:
		rt.themes[rt.state.ActiveTheme].OnButtonAction()
	case rt.m.cfg.Buttons.Advance:
		return rt.switchTo(rt.next())
	default:
		rt.m.logger.Debug("ignoring unknown button", "run_id", rt.id, "button", id)
	}
	return nil
}

// compose copies src over dst, aligned at the origin.
func compose(dst *image.RGBA, src image.Image) {
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
}

// sleep yields for d, or minYield when d is not positive.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		d = minYield
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// guard turns a panic in a task into an error.
func guard(name string, fn func() error) func() error {
	return func() error {
		return protect(name, fn)
	}
}

func protect(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrTaskPanic, name, r)
		}
	}()
	return fn()
}
