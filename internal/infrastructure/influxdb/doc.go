// Package influxdb records display telemetry in InfluxDB v2.
//
// Two measurements are written, both tagged with the device id:
//
//	frame_stats   theme, frame, tick duration and effective FPS
//	entity_state  power and label light changes (on, r, g, b, brightness)
//
// Writes are batched and never block; failed batches are counted and
// reported through SetOnError.
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
package influxdb
