package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Logger is the subset of *slog.Logger that components depend on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config represents logging configuration.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

type module struct {
	logger *slog.Logger
	level  *slog.LevelVar
	format string
}

var (
	mu          sync.RWMutex
	modules     = map[string]*module{}
	current     Config
	initialized bool
	rootLevel   = &slog.LevelVar{}
)

// Initialize applies config to every module logger and installs the default
// slog logger. Loggers handed out earlier stay valid: their LevelVar is
// updated in place and only a format change swaps the handler.
func Initialize(config Config) {
	mu.Lock()
	defer mu.Unlock()

	current = config
	initialized = true
	applyLevels()

	for name, m := range modules {
		if m.format != config.Format {
			m.logger = newModuleLogger(name, config.Format, m.level)
			m.format = config.Format
		}
	}
	slog.SetDefault(slog.New(newHandler(config.Format, rootLevel)))
}

// SetLevels updates global and per-module levels, leaving the format alone.
func SetLevels(config Config) {
	mu.Lock()
	defer mu.Unlock()

	current.Level = config.Level
	current.Modules = config.Modules
	applyLevels()
}

// GetLogger returns the logger for name, creating it on first use.
func GetLogger(name string) *slog.Logger {
	mu.RLock()
	m, ok := modules[name]
	mu.RUnlock()
	if ok {
		return m.logger
	}

	mu.Lock()
	defer mu.Unlock()
	if m, ok := modules[name]; ok {
		return m.logger
	}

	m = &module{level: &slog.LevelVar{}, format: "text"}
	if initialized {
		m.level.Set(levelFor(name))
		m.format = current.Format
	}
	m.logger = newModuleLogger(name, m.format, m.level)
	modules[name] = m
	return m.logger
}

// applyLevels pushes current into the LevelVars. Caller holds mu.
func applyLevels() {
	rootLevel.Set(globalLevel())
	for name, m := range modules {
		m.level.Set(levelFor(name))
	}
}

func globalLevel() slog.Level {
	if level, ok := parseLevel(current.Level); ok {
		return level
	}
	return slog.LevelInfo
}

func levelFor(name string) slog.Level {
	if level, ok := parseLevel(current.Modules[name]); ok {
		return level
	}
	return globalLevel()
}

func newModuleLogger(name, format string, level slog.Leveler) *slog.Logger {
	return slog.New(newHandler(format, level)).With("module", name)
}

// newHandler writes to stdout when something is attached to it and to the
// journal when journald is running. With neither, stdout is used anyway.
func newHandler(format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	var stdout slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if format == "json" {
		stdout = slog.NewJSONHandler(os.Stdout, opts)
	}

	var sinks []slog.Handler
	if stdoutAttached() {
		sinks = append(sinks, stdout)
	}
	if IsJournalAvailable() {
		sinks = append(sinks, NewJournalHandler(level))
	}

	switch len(sinks) {
	case 0:
		return stdout
	case 1:
		return sinks[0]
	default:
		return NewMultiHandler(sinks...)
	}
}

// stdoutAttached is false when stdout is closed or points at /dev/null,
// as it does for a systemd service without StandardOutput.
func stdoutAttached() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	mode := fi.Mode()
	return mode&(os.ModeCharDevice|os.ModeNamedPipe|os.ModeSocket) != 0 || mode.IsRegular()
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}
