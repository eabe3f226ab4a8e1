// Package hass bridges virtual devices onto the bus using Home Assistant
// MQTT discovery.
//
// Each Entity owns three topics derived from the discovery prefix, its
// device class, the device id and its name:
//
//	{prefix}/{class}/{device}_{name}/config   retained discovery config
//	{prefix}/{class}/{device}_{name}/set      commands from the controller
//	{prefix}/{class}/{device}_{name}/state    retained state
//
// The entity's state map is the single source of truth. Every write merges
// into it and republishes the whole map (a switch publishes only its bare
// "state" value), so a controller that subscribes late still sees the
// current state.
//
// Inbound commands are matched by exact string comparison against each
// entity's command topic. Wildcard subscriptions happen at the transport.
//
// An optional HistoryStore persists every state write so the last known
// power and colour survive a restart.
package hass
