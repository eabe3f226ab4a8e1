package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Matrix Portal Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Device   DeviceConfig   `yaml:"device"`
	Runtime  RuntimeConfig  `yaml:"runtime"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	HASS     HASSConfig     `yaml:"hass"`
	Matrix   MatrixConfig   `yaml:"matrix"`
	Buttons  ButtonsConfig  `yaml:"buttons"`
	Time     TimeConfig     `yaml:"time"`
	Themes   ThemesConfig   `yaml:"themes"`
	Database DatabaseConfig `yaml:"database"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DeviceConfig identifies this display on the bus.
type DeviceConfig struct {
	// ID scopes every topic this device publishes or subscribes to.
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
}

// RuntimeConfig controls the supervisor and the scheduling run-time.
type RuntimeConfig struct {
	// RestartDelay is the pause between a run-time fault and the next instance.
	RestartDelay time.Duration `yaml:"restart_delay"`

	// DebugEveryFrames is how often the debug report is logged (in frames).
	DebugEveryFrames uint64 `yaml:"debug_every_frames"`
}

// MQTTConfig contains MQTT broker connection settings.
// Discovery, state and command traffic always uses QoS 1.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`

	// TopicPrefix is the application prefix for device-scoped topics:
	// {topic_prefix}/{device.id}/#
	TopicPrefix string `yaml:"topic_prefix"`

	// PollInterval is the yield between two passes of the bus task.
	PollInterval time.Duration `yaml:"poll_interval"`

	// InboxSize bounds the number of inbound messages waiting for the bus task.
	InboxSize int `yaml:"inbox_size"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// HASSConfig contains Home Assistant discovery settings.
type HASSConfig struct {
	Enabled     bool   `yaml:"enabled"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// MatrixConfig describes the LED matrix and the frame cadence.
type MatrixConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// FrameDelay is the yield after each render tick.
	FrameDelay time.Duration `yaml:"frame_delay"`

	// Display selects the surface: "auto", "terminal" or "none".
	Display string `yaml:"display"`

	// Brightness is applied to the sprite sheet, in percent (-100 to 100).
	Brightness float64 `yaml:"brightness"`

	// Gamma is applied to the sprite sheet. 1.0 leaves colours unchanged.
	Gamma float64 `yaml:"gamma"`
}

// ButtonsConfig configures the two physical buttons.
type ButtonsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Chip    string `yaml:"chip"`

	// Lines are the GPIO line offsets, indexed by button id (0 = up, 1 = down).
	Lines []int `yaml:"lines"`

	Debounce     time.Duration `yaml:"debounce"`
	PollInterval time.Duration `yaml:"poll_interval"`

	// Action is the button id that triggers the active theme's action.
	Action int `yaml:"action"`

	// Advance is the button id that switches to the next theme.
	Advance int `yaml:"advance"`
}

// TimeConfig configures periodic clock synchronisation.
type TimeConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`

	// URL is the strftime endpoint. {user} and {key} are substituted.
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Key      string `yaml:"key"`
}

// ThemesConfig selects and orders the themes.
type ThemesConfig struct {
	Enabled []string `yaml:"enabled"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`

	// EveryFrames is how often frame statistics are written (in frames).
	EveryFrames uint64 `yaml:"every_frames"`
}

// APIConfig contains the read-only status server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: MATRIXPORTAL_SECTION_KEY
// For example: MATRIXPORTAL_MQTT_HOST, MATRIXPORTAL_TIME_KEY
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults for a 64x32 matrix.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			ID:       "matrixportal",
			Name:     "Matrix Portal",
			Timezone: "UTC",
		},
		Runtime: RuntimeConfig{
			RestartDelay:     2 * time.Second,
			DebugEveryFrames: 100,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "matrixportal",
			},
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
			TopicPrefix:  "matrixportal",
			PollInterval: time.Millisecond,
			InboxSize:    64,
		},
		HASS: HASSConfig{
			Enabled:     true,
			TopicPrefix: "homeassistant",
		},
		Matrix: MatrixConfig{
			Width:      64,
			Height:     32,
			FrameDelay: 10 * time.Millisecond,
			Display:    "auto",
			Gamma:      1.0,
		},
		Buttons: ButtonsConfig{
			Chip:         "gpiochip0",
			Lines:        []int{2, 3},
			Debounce:     20 * time.Millisecond,
			PollInterval: time.Millisecond,
			Action:       0,
			Advance:      1,
		},
		Time: TimeConfig{
			Enabled:  true,
			Interval: time.Hour,
			Timeout:  5 * time.Second,
			URL:      "https://io.adafruit.com/api/v2/{user}/integrations/time/strftime?x-aio-key={key}&fmt=%25Y-%25m-%25d+%25H%3A%25M%3A%25S.%25L+%25j+%25u+%25z+%25Z",
		},
		Themes: ThemesConfig{
			Enabled: []string{"random", "runner", "simple", "gradius"},
		},
		Database: DatabaseConfig{
			Path:        "./data/matrixportal.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
			EveryFrames:   500,
		},
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8090,
			Timeouts: APITimeoutConfig{
				Read:  10,
				Write: 10,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: MATRIXPORTAL_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Device
	if v := os.Getenv("MATRIXPORTAL_DEVICE_ID"); v != "" {
		cfg.Device.ID = v
	}

	// MQTT
	if v := os.Getenv("MATRIXPORTAL_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("MATRIXPORTAL_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("MATRIXPORTAL_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Time service credentials
	if v := os.Getenv("MATRIXPORTAL_TIME_USERNAME"); v != "" {
		cfg.Time.Username = v
	}
	if v := os.Getenv("MATRIXPORTAL_TIME_KEY"); v != "" {
		cfg.Time.Key = v
	}

	// InfluxDB
	if v := os.Getenv("MATRIXPORTAL_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("MATRIXPORTAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Device.ID == "" {
		errs = append(errs, "device.id is required")
	}
	if c.Device.Timezone != "" {
		if _, err := time.LoadLocation(c.Device.Timezone); err != nil {
			errs = append(errs, fmt.Sprintf("device.timezone %q is not a known location", c.Device.Timezone))
		}
	}

	if c.MQTT.TopicPrefix == "" {
		errs = append(errs, "mqtt.topic_prefix is required")
	}
	if c.MQTT.Auth.Username != "" && c.MQTT.Auth.Password == "" {
		errs = append(errs, "mqtt.auth.password is required when a username is set (set MATRIXPORTAL_MQTT_PASSWORD)")
	}
	if c.HASS.Enabled && c.HASS.TopicPrefix == "" {
		errs = append(errs, "hass.topic_prefix is required when hass is enabled")
	}

	if c.Matrix.Width <= 0 || c.Matrix.Height <= 0 {
		errs = append(errs, "matrix.width and matrix.height must be positive")
	}
	switch c.Matrix.Display {
	case "auto", "terminal", "none":
	default:
		errs = append(errs, "matrix.display must be auto, terminal, or none")
	}

	if len(c.Themes.Enabled) == 0 {
		errs = append(errs, "themes.enabled must list at least one theme")
	}

	if c.Buttons.Action == c.Buttons.Advance {
		errs = append(errs, "buttons.action and buttons.advance must be different buttons")
	}
	if c.Buttons.Enabled && len(c.Buttons.Lines) != 2 {
		errs = append(errs, "buttons.lines must list exactly two GPIO lines")
	}

	if c.Time.Enabled {
		if c.Time.URL == "" {
			errs = append(errs, "time.url is required when time sync is enabled")
		}
		if c.Time.Interval <= 0 {
			errs = append(errs, "time.interval must be positive")
		}
	}

	if c.Database.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when the database is enabled")
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Token == "" {
			errs = append(errs, "influxdb.token is required (set MATRIXPORTAL_INFLUXDB_TOKEN)")
		}
	}

	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// Location returns the configured device timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Device.Timezone)
	if err != nil || c.Device.Timezone == "" {
		return time.UTC
	}
	return loc
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
