package mqtt

import "fmt"

// Topic suffixes for discovery entities.
const (
	suffixConfig = "config"
	suffixSet    = "set"
	suffixState  = "state"
)

// Topics builds every topic this device uses.
//
// Device topics live under {App}/{Device}/...; discovery entities live under
// {Discovery}/{class}/{Device}_{name}/{config|set|state}.
//
//	topics := mqtt.NewTopics("matrixportal", "kitchen", "homeassistant")
//	topics.EntityState("switch", "power")
//	// Returns: "homeassistant/switch/kitchen_power/state"
type Topics struct {
	App       string
	Device    string
	Discovery string
}

// NewTopics returns a Topics builder for one device.
func NewTopics(app, device, discovery string) Topics {
	return Topics{App: app, Device: device, Discovery: discovery}
}

// =============================================================================
// Device Topics
// =============================================================================

// DeviceRoot returns the prefix of every device-scoped topic.
//
// Example: matrixportal/kitchen
func (t Topics) DeviceRoot() string {
	return fmt.Sprintf("%s/%s", t.App, t.Device)
}

// DeviceAll returns the wildcard covering every device-scoped topic.
//
// Example: matrixportal/kitchen/#
func (t Topics) DeviceAll() string {
	return t.DeviceRoot() + "/#"
}

// DeviceCommand returns the topic for a named remote command.
//
// Example: matrixportal/kitchen/theme
func (t Topics) DeviceCommand(command string) string {
	return fmt.Sprintf("%s/%s", t.DeviceRoot(), command)
}

// Status returns the retained availability topic (also the LWT topic).
//
// Example: matrixportal/kitchen/status
func (t Topics) Status() string {
	return t.DeviceCommand("status")
}

// =============================================================================
// Discovery Topics
// =============================================================================

// EntityID returns the device-scoped unique id of an entity.
//
// Example: kitchen_power
func (t Topics) EntityID(name string) string {
	return fmt.Sprintf("%s_%s", t.Device, name)
}

// EntityBase returns the discovery base topic for an entity.
//
// Example: homeassistant/switch/kitchen_power
func (t Topics) EntityBase(class, name string) string {
	return fmt.Sprintf("%s/%s/%s", t.Discovery, class, t.EntityID(name))
}

// EntityConfig returns the retained discovery config topic.
func (t Topics) EntityConfig(class, name string) string {
	return t.EntityBase(class, name) + "/" + suffixConfig
}

// EntitySet returns the command topic an entity listens on.
func (t Topics) EntitySet(class, name string) string {
	return t.EntityBase(class, name) + "/" + suffixSet
}

// EntityState returns the retained state topic of an entity.
func (t Topics) EntityState(class, name string) string {
	return t.EntityBase(class, name) + "/" + suffixState
}
