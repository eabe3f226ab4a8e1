// Package logging provides the structured logger used across Matrix Portal Core.
//
// It wraps log/slog with a JSON or text handler and stamps every entry with
// the service name and build version. Components get child loggers:
//
//	log := logging.New(cfg.Logging, version).ForDevice(cfg.Device.ID)
//	log.Component("bus").Info("subscribed", "topic", topic)
//
// Output is one of stdout, stderr, none, or auto. With auto, logs go to
// stderr whenever stdout is a terminal, since the terminal display draws
// frames there.
//
// Never log the MQTT password or the time service key.
package logging
