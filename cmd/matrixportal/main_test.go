package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("MATRIXPORTAL_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
	if !strings.Contains(err.Error(), "loading config") {
		t.Errorf("error %q should come from config loading", err)
	}
}

// TestRun_UnknownTheme verifies an unknown theme aborts startup before any
// connection is attempted.
func TestRun_UnknownTheme(t *testing.T) {
	t.Setenv("MATRIXPORTAL_CONFIG", writeConfig(t, `
device:
  id: "test"
themes:
  enabled: ["simple", "tetris"]
logging:
  level: error
  format: text
`))

	err := run(context.Background())
	if err == nil {
		t.Fatal("run() should fail with an unknown theme")
	}
	if !strings.Contains(err.Error(), "tetris") {
		t.Errorf("error %q should name the unknown theme", err)
	}
}

// TestRun_EmptyThemeList verifies an empty theme list is a fatal config error.
func TestRun_EmptyThemeList(t *testing.T) {
	t.Setenv("MATRIXPORTAL_CONFIG", writeConfig(t, `
themes:
  enabled: []
`))

	if err := run(context.Background()); err == nil {
		t.Fatal("run() should fail with no themes")
	}
}

// TestRun_BrokerUnavailable verifies startup fails when MQTT is unreachable.
// The database is opened and migrated before the broker is dialled.
func TestRun_BrokerUnavailable(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the MQTT connect timeout")
	}

	dbPath := filepath.Join(t.TempDir(), "state.db")
	t.Setenv("MATRIXPORTAL_CONFIG", writeConfig(t, `
device:
  id: "test"
database:
  enabled: true
  path: "`+dbPath+`"
mqtt:
  broker:
    host: "127.0.0.1"
    port: 19999
matrix:
  display: "none"
time:
  enabled: false
logging:
  level: error
  format: text
`))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail without a broker")
	}
	if _, statErr := os.Stat(dbPath); statErr != nil {
		t.Errorf("database should have been created: %v", statErr)
	}
}

// TestRun_SuccessfulStartupAndShutdown tests full startup with running services.
// Requires MQTT broker at 127.0.0.1:1883.
func TestRun_SuccessfulStartupAndShutdown(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	t.Setenv("MATRIXPORTAL_CONFIG", writeConfig(t, `
device:
  id: "test-startup"
database:
  enabled: true
  path: "`+dbPath+`"
mqtt:
  broker:
    host: "127.0.0.1"
    port: 1883
    client_id: "test-successful-startup"
matrix:
  display: "none"
time:
  enabled: false
logging:
  level: error
  format: text
`))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Logf("run() returned error: %v (may be due to missing MQTT broker)", err)
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("MATRIXPORTAL_CONFIG", "")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	expected := "/custom/path/config.yaml"
	t.Setenv("MATRIXPORTAL_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}
