// Package api serves the read-only status endpoint of the display.
//
// Routes:
//
//	GET /health                          liveness plus dependency checks
//	GET /api/state                       manager snapshot (theme, frame, entities)
//	GET /api/entities/{name}/history     persisted entity states, newest first
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// There is no write surface: commands go over MQTT.
package api
