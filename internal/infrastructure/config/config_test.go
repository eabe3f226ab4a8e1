package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
device:
  id: "kitchen"
  name: "Kitchen Display"
  timezone: "Europe/London"

mqtt:
  broker:
    host: "broker.local"
    port: 1883
  topic_prefix: "portal"

matrix:
  width: 64
  height: 32
  frame_delay: 20ms
  display: "none"

time:
  enabled: true
  interval: 30m

themes:
  enabled: ["simple", "gradius"]
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Device.ID != "kitchen" {
		t.Errorf("Device.ID = %q, want %q", cfg.Device.ID, "kitchen")
	}

	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}

	if cfg.MQTT.TopicPrefix != "portal" {
		t.Errorf("MQTT.TopicPrefix = %q, want %q", cfg.MQTT.TopicPrefix, "portal")
	}

	if cfg.Matrix.FrameDelay != 20*time.Millisecond {
		t.Errorf("Matrix.FrameDelay = %v, want 20ms", cfg.Matrix.FrameDelay)
	}

	if cfg.Time.Interval != 30*time.Minute {
		t.Errorf("Time.Interval = %v, want 30m", cfg.Time.Interval)
	}

	if len(cfg.Themes.Enabled) != 2 || cfg.Themes.Enabled[0] != "simple" {
		t.Errorf("Themes.Enabled = %v, want [simple gradius]", cfg.Themes.Enabled)
	}

	// Unset sections keep their defaults
	if cfg.HASS.TopicPrefix != "homeassistant" {
		t.Errorf("HASS.TopicPrefix = %q, want %q", cfg.HASS.TopicPrefix, "homeassistant")
	}

	if cfg.Location().String() != "Europe/London" {
		t.Errorf("Location() = %q, want %q", cfg.Location(), "Europe/London")
	}
}

func TestLoad_IgnoresQoSKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := `
device:
  id: "kitchen"
mqtt:
  qos: 0
  topic_prefix: "portal"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MQTT.TopicPrefix != "portal" {
		t.Errorf("MQTT.TopicPrefix = %q, want %q", cfg.MQTT.TopicPrefix, "portal")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() should return error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() should return error for invalid YAML")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
device:
  id: ""
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() should return error for missing device ID")
	}
	if !strings.Contains(err.Error(), "device.id") {
		t.Errorf("error %q should mention device.id", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing device ID",
			mutate:  func(c *Config) { c.Device.ID = "" },
			wantErr: true,
		},
		{
			name:    "unknown timezone",
			mutate:  func(c *Config) { c.Device.Timezone = "Mars/Olympus" },
			wantErr: true,
		},
		{
			name:    "missing topic prefix",
			mutate:  func(c *Config) { c.MQTT.TopicPrefix = "" },
			wantErr: true,
		},
		{
			name:    "username without password",
			mutate:  func(c *Config) { c.MQTT.Auth.Username = "portal" },
			wantErr: true,
		},
		{
			name:    "zero matrix size",
			mutate:  func(c *Config) { c.Matrix.Width = 0 },
			wantErr: true,
		},
		{
			name:    "unknown display",
			mutate:  func(c *Config) { c.Matrix.Display = "hdmi" },
			wantErr: true,
		},
		{
			name:    "no themes",
			mutate:  func(c *Config) { c.Themes.Enabled = nil },
			wantErr: true,
		},
		{
			name:    "same button for action and advance",
			mutate:  func(c *Config) { c.Buttons.Advance = c.Buttons.Action },
			wantErr: true,
		},
		{
			name: "buttons enabled with one line",
			mutate: func(c *Config) {
				c.Buttons.Enabled = true
				c.Buttons.Lines = []int{4}
			},
			wantErr: true,
		},
		{
			name:    "time sync without URL",
			mutate:  func(c *Config) { c.Time.URL = "" },
			wantErr: true,
		},
		{
			name:    "time sync disabled without URL",
			mutate:  func(c *Config) { c.Time.Enabled = false; c.Time.URL = "" },
			wantErr: false,
		},
		{
			name:    "influxdb without token",
			mutate:  func(c *Config) { c.InfluxDB.Enabled = true; c.InfluxDB.URL = "http://influx:8086" },
			wantErr: true,
		},
		{
			name:    "api port too high",
			mutate:  func(c *Config) { c.API.Enabled = true; c.API.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "api port ignored when disabled",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}

	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}

	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()

	t.Setenv("MATRIXPORTAL_DEVICE_ID", "hallway")
	t.Setenv("MATRIXPORTAL_MQTT_HOST", "mqtt.example.com")
	t.Setenv("MATRIXPORTAL_MQTT_USERNAME", "testuser")
	t.Setenv("MATRIXPORTAL_MQTT_PASSWORD", "testpass")
	t.Setenv("MATRIXPORTAL_TIME_KEY", "aio-key")
	t.Setenv("MATRIXPORTAL_INFLUXDB_TOKEN", "secret-token")
	t.Setenv("MATRIXPORTAL_LOG_LEVEL", "debug")

	applyEnvOverrides(cfg)

	if cfg.Device.ID != "hallway" {
		t.Errorf("Device.ID = %q, want %q", cfg.Device.ID, "hallway")
	}

	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}

	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}

	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}

	if cfg.Time.Key != "aio-key" {
		t.Errorf("Time.Key = %q, want %q", cfg.Time.Key, "aio-key")
	}

	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Matrix.Width != 64 || cfg.Matrix.Height != 32 {
		t.Errorf("Default matrix = %dx%d, want 64x32", cfg.Matrix.Width, cfg.Matrix.Height)
	}

	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("Default MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}

	if cfg.Time.Interval != time.Hour {
		t.Errorf("Default Time.Interval = %v, want 1h", cfg.Time.Interval)
	}

	if cfg.Buttons.Action != 0 || cfg.Buttons.Advance != 1 {
		t.Errorf("Default buttons = action %d advance %d, want 0 and 1", cfg.Buttons.Action, cfg.Buttons.Advance)
	}

	if cfg.Runtime.DebugEveryFrames != 100 {
		t.Errorf("Default Runtime.DebugEveryFrames = %d, want 100", cfg.Runtime.DebugEveryFrames)
	}
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := Default()
	cfg.Device.Timezone = "Nowhere/Invalid"

	if cfg.Location() != time.UTC {
		t.Errorf("Location() = %v, want UTC", cfg.Location())
	}
}
