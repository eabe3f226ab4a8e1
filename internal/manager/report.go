package manager

import (
	"context"
	"log/slog"
	"time"

	"github.com/shirou/gopsutil/v4/mem"

	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/influxdb"
)

// frameSample is what the render task knows about the frame it just presented.
type frameSample struct {
	frame uint64
	index int
	theme string
	took  time.Duration
}

// report logs the periodic debug line and writes frame telemetry.
// Memory is only sampled when debug logging is enabled.
// Only the render task calls it.
func (rt *runtime) report(ctx context.Context, r frameSample) {
	every := rt.m.cfg.Runtime.DebugEveryFrames
	if every > 0 && r.frame%every == 0 && rt.m.logger.Enabled(ctx, slog.LevelDebug) {
		args := []any{
			"run_id", rt.id,
			"theme", r.theme,
			"index", r.index,
			"frame", r.frame,
			"tick", r.took,
		}
		if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
			args = append(args, "mem_available", vm.Available, "mem_used_percent", vm.UsedPercent)
		}
		rt.m.logger.Debug("run-time report", args...)
	}

	if rt.m.telemetry == nil {
		return
	}
	every = rt.m.cfg.InfluxDB.EveryFrames
	if every == 0 || r.frame%every != 0 {
		return
	}

	now := time.Now()
	var fps float64
	if elapsed := now.Sub(rt.sampleAt).Seconds(); elapsed > 0 {
		fps = float64(r.frame-rt.sampleFrame) / elapsed
	}
	rt.sampleFrame, rt.sampleAt = r.frame, now

	rt.m.telemetry.WriteFrameStats(rt.m.cfg.Device.ID, influxdb.FrameStats{
		Theme: r.theme,
		Frame: r.frame,
		Tick:  r.took,
		FPS:   fps,
	})
}
