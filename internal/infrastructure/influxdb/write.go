package influxdb

import (
	"fmt"
	"strings"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	measurementFrames   = "frame_stats"
	measurementEntities = "entity_state"
)

// FrameStats is one frame timing sample.
type FrameStats struct {
	Theme string
	Frame uint64

	// Tick is how long the last tick took to compose.
	Tick time.Duration

	// FPS is the effective frame rate since the previous sample.
	FPS float64
}

// WriteFrameStats records a frame timing sample.
//
// The write is non-blocking; data is batched and sent asynchronously.
func (c *Client) WriteFrameStats(deviceID string, stats FrameStats) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(framePoint(deviceID, stats, time.Now()))
}

// WriteEntityState records an entity state change.
//
// Only numeric and on/off values are kept: "state" becomes the boolean field
// "on", colour channels become r, g and b, and other numbers are written as
// float fields under their own key.
func (c *Client) WriteEntityState(deviceID, entity string, state map[string]any) {
	if !c.IsConnected() {
		return
	}
	point := entityPoint(deviceID, entity, state, time.Now())
	if point == nil {
		return
	}
	c.writeAPI.WritePoint(point)
}

func framePoint(deviceID string, stats FrameStats, at time.Time) *write.Point {
	return write.NewPoint(
		measurementFrames,
		map[string]string{
			"device_id": deviceID,
			"theme":     stats.Theme,
		},
		map[string]interface{}{
			"frame":   stats.Frame,
			"tick_ms": float64(stats.Tick.Microseconds()) / 1000,
			"fps":     stats.FPS,
		},
		at,
	)
}

// entityPoint returns nil when state has nothing numeric to record.
func entityPoint(deviceID, entity string, state map[string]any, at time.Time) *write.Point {
	fields := make(map[string]interface{})

	for key, v := range state {
		switch key {
		case "state":
			fields["on"] = !strings.EqualFold(strings.TrimSpace(fmt.Sprint(v)), "OFF")
		case "color":
			rgb, ok := v.(map[string]any)
			if !ok {
				continue
			}
			for _, ch := range []string{"r", "g", "b"} {
				if n, ok := number(rgb[ch]); ok {
					fields[ch] = n
				}
			}
		default:
			if n, ok := number(v); ok {
				fields[key] = n
			}
		}
	}

	if len(fields) == 0 {
		return nil
	}

	return write.NewPoint(
		measurementEntities,
		map[string]string{
			"device_id": deviceID,
			"entity":    entity,
		},
		fields,
		at,
	)
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint8:
		return float64(x), true
	}
	return 0, false
}
