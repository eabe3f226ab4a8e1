package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/config"
)

const serviceName = "matrixportal"

// Logger is the structured logger shared by every component.
// It is safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds a logger from the logging section of the config.
// Every entry carries the service name and the build version.
func New(cfg config.LoggingConfig, version string) *Logger {
	return newWithWriter(cfg, version, outputFor(cfg.Output, os.Stdout))
}

// outputFor resolves the configured destination. "auto" moves logs to
// stderr when stdout is a terminal, because the terminal display owns it.
func outputFor(name string, stdout *os.File) io.Writer {
	switch strings.ToLower(name) {
	case "stderr":
		return os.Stderr
	case "auto":
		if isatty.IsTerminal(stdout.Fd()) || isatty.IsCygwinTerminal(stdout.Fd()) {
			return os.Stderr
		}
		return stdout
	case "none":
		return io.Discard
	default:
		return stdout
	}
}

func newWithWriter(cfg config.LoggingConfig, version string, output io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	return &Logger{
		Logger: slog.New(handler.WithAttrs([]slog.Attr{
			slog.String("service", serviceName),
			slog.String("version", version),
		})),
	}
}

// parseLevel maps debug, info, warn and error; anything else is info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a child logger carrying extra attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Component tags entries with the emitting component, e.g. "bus" or "manager".
func (l *Logger) Component(name string) *Logger {
	return l.With("component", name)
}

// ForDevice tags entries with the display's device id.
func (l *Logger) ForDevice(id string) *Logger {
	return l.With("device", id)
}

// Default is the JSON info logger used until the config has been read.
func Default() *Logger {
	return New(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"}, "dev")
}

// Discard returns a logger that drops every entry.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}
