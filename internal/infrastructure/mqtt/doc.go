// Package mqtt connects a Matrix Portal device to its MQTT broker.
//
// One Client serves one device. It publishes the device's availability
// (retained, with an LWT for crashes), keeps subscriptions across
// reconnects, and builds every topic the device uses:
//
//	{app}/{device}/status                       availability
//	{app}/{device}/{command}                    remote commands (theme, button, ...)
//	{discovery}/{class}/{device}_{name}/config  retained discovery config
//	{discovery}/{class}/{device}_{name}/set     entity commands
//	{discovery}/{class}/{device}_{name}/state   retained entity state
//
//	topics := mqtt.NewTopics(cfg.MQTT.TopicPrefix, cfg.Device.ID, cfg.HASS.TopicPrefix)
//	client, err := mqtt.Connect(cfg.MQTT, topics)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// Handlers run on paho goroutines. The bus adapter only enqueues from them,
// so shared display state is never touched from a handler.
package mqtt
