package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/blinkid/internal/logging"
)

type timingFile struct {
	Timing struct {
		FadeStep int `toml:"fade_step"`
	} `toml:"timing"`
}

func loadTimingFile(path string) (timingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return timingFile{}, err
	}
	var cfg timingFile
	err = toml.Unmarshal(data, &cfg)
	return cfg, err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func startWatcher(t *testing.T, path string, debounce time.Duration) *Watcher[timingFile] {
	t.Helper()
	w := NewConfigWatcher(path, loadTimingFile, newTestLogger(), WithDebounce[timingFile](debounce))
	t.Cleanup(func() {
		if err := w.Stop(); err != nil {
			t.Errorf("watcher.Stop failed: %v", err)
		}
	})
	return w
}

func TestConfigWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blinkid.toml")
	writeConfig(t, path, "[timing]\nfade_step = 1\n")

	received := make(chan timingFile, 1)
	w := startWatcher(t, path, 50*time.Millisecond)
	w.OnReload(func(cfg timingFile) { received <- cfg })
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	writeConfig(t, path, "[timing]\nfade_step = 5\n")

	select {
	case cfg := <-received:
		if cfg.Timing.FadeStep != 5 {
			t.Errorf("fade_step = %d, want 5", cfg.Timing.FadeStep)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for config reload")
	}
}

func TestConfigWatcher_ReplaceByRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blinkid.toml")
	writeConfig(t, path, "[timing]\nfade_step = 1\n")

	received := make(chan timingFile, 4)
	w := startWatcher(t, path, 50*time.Millisecond)
	w.OnReload(func(cfg timingFile) { received <- cfg })
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	tmp := filepath.Join(dir, "blinkid.toml.tmp")
	writeConfig(t, tmp, "[timing]\nfade_step = 7\n")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-received:
		if cfg.Timing.FadeStep != 7 {
			t.Errorf("fade_step = %d, want 7", cfg.Timing.FadeStep)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("rename-replaced config not reloaded")
	}
}

func TestConfigWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blinkid.toml")
	writeConfig(t, path, "")

	var count atomic.Int32
	w := startWatcher(t, path, 20*time.Millisecond)
	w.OnReload(func(timingFile) { count.Add(1) })
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)

	writeConfig(t, filepath.Join(dir, "other.toml"), "x = 1\n")
	time.Sleep(150 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("sibling file change triggered %d reloads", got)
	}
}

func TestConfigWatcher_Debounce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blinkid.toml")
	writeConfig(t, path, "[timing]\nfade_step = 0\n")

	var count, last atomic.Int32
	w := startWatcher(t, path, 200*time.Millisecond)
	w.OnReload(func(cfg timingFile) {
		count.Add(1)
		last.Store(int32(cfg.Timing.FadeStep))
	})
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}

	time.Sleep(100 * time.Millisecond)
	for i := 1; i <= 5; i++ {
		writeConfig(t, path, fmt.Sprintf("[timing]\nfade_step = %d\n", i))
		time.Sleep(50 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Errorf("expected 1 debounced call, got %d", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("expected final fade_step 5, got %d", got)
	}
}

func TestConfigWatcher_ErrorHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blinkid.toml")
	writeConfig(t, path, "[timing]\nfade_step = 1\n")

	errCh := make(chan error, 1)
	called := make(chan struct{}, 1)
	w := NewConfigWatcher(path, loadTimingFile, newTestLogger(),
		WithDebounce[timingFile](50*time.Millisecond),
		WithErrorHandler[timingFile](func(err error) { errCh <- err }),
	)
	defer w.Stop()
	w.OnReload(func(timingFile) { called <- struct{}{} })
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	writeConfig(t, path, "[timing\nbroken")

	select {
	case err := <-errCh:
		if err == nil {
			t.Error("error handler received nil")
		}
	case <-called:
		t.Fatal("reload handler called for invalid config")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error handler")
	}
}

func TestConfigWatcher_Unsubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blinkid.toml")
	writeConfig(t, path, "")

	var first, second atomic.Int32
	w := startWatcher(t, path, 30*time.Millisecond)
	w.OnReload(func(timingFile) { first.Add(1) })
	unsub := w.OnReload(func(timingFile) { second.Add(1) })
	unsub()
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	writeConfig(t, path, "[timing]\nfade_step = 2\n")
	time.Sleep(300 * time.Millisecond)

	if first.Load() != 1 || second.Load() != 0 {
		t.Errorf("calls = %d/%d, want 1/0", first.Load(), second.Load())
	}
}

func TestConfigWatcher_Stop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blinkid.toml")
	writeConfig(t, path, "")

	var count atomic.Int32
	w := NewConfigWatcher(path, loadTimingFile, newTestLogger(), WithDebounce[timingFile](50*time.Millisecond))
	w.OnReload(func(timingFile) { count.Add(1) })
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := w.Stop(); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, path, "[timing]\nfade_step = 9\n")
	time.Sleep(200 * time.Millisecond)

	if got := count.Load(); got != 0 {
		t.Errorf("expected 0 calls after stop, got %d", got)
	}
}

func TestConfigWatcher_StartMissingDir(t *testing.T) {
	w := NewConfigWatcher(filepath.Join(t.TempDir(), "absent", "blinkid.toml"), loadTimingFile, newTestLogger())
	if err := w.Start(); err == nil {
		w.Stop()
		t.Fatal("expected error watching a missing directory")
	}
}

// loggingOptions is the logging slice of the daemon's Options.
type loggingOptions struct {
	Config       string
	LoggingLevel string `toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingLED   string `name:"logging-led" toml:"logging.led" env:"LOGGING_LED"`
}

// resolveLogging re-reads options the way the daemon does on reload.
func resolveLogging(startup loggingOptions) func() (logging.Config, error) {
	return func() (logging.Config, error) {
		fresh := startup
		if err := LoadConfig(&fresh, nil); err != nil {
			return logging.Config{}, err
		}
		file, err := LoadLoggingConfig(fresh.Config)
		if err != nil {
			return logging.Config{}, err
		}
		cfg := logging.Config{Level: fresh.LoggingLevel, Format: "text", Modules: file.Modules}
		if fresh.LoggingLED != "" {
			cfg.Modules["led"] = fresh.LoggingLED
		}
		return cfg, nil
	}
}

func waitForLevel(t *testing.T, logger *slog.Logger, level slog.Level, want bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if logger.Enabled(context.Background(), level) == want {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("%v enabled never became %v", level, want)
}

func TestWatchLoggingAppliesLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blinkid.toml")
	writeConfig(t, path, "[logging]\nlevel = \"info\"\n")

	logging.Initialize(logging.Config{Level: "info", Format: "text"})
	seqLogger := logging.GetLogger("sequence")

	w, err := WatchLogging(path, resolveLogging(loggingOptions{Config: path, LoggingLevel: "info"}), newTestLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	time.Sleep(100 * time.Millisecond)

	writeConfig(t, path, "[logging]\nlevel = \"info\"\nsequence = \"debug\"\n")
	waitForLevel(t, seqLogger, slog.LevelDebug, true)
}

func TestWatchLoggingKeepsEnvOverride(t *testing.T) {
	t.Setenv("BLINKID_LOGGING_LEVEL", "debug")
	path := filepath.Join(t.TempDir(), "blinkid.toml")
	writeConfig(t, path, "[logging]\nlevel = \"warn\"\n")

	startup := loggingOptions{Config: path}
	if err := LoadConfig(&startup, nil); err != nil {
		t.Fatal(err)
	}
	if startup.LoggingLevel != "debug" {
		t.Fatalf("startup level = %q, want env debug", startup.LoggingLevel)
	}
	logging.Initialize(logging.Config{Level: startup.LoggingLevel, Format: "text"})
	btnLogger := logging.GetLogger("button")
	ledLogger := logging.GetLogger("led")

	w, err := WatchLogging(path, resolveLogging(startup), newTestLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	time.Sleep(100 * time.Millisecond)

	writeConfig(t, path, "[logging]\nlevel = \"warn\"\nled = \"error\"\n")
	waitForLevel(t, ledLogger, slog.LevelWarn, false)

	if !btnLogger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("reload replaced the env log level with the file's")
	}
}

func TestWatchLoggingKeepsLevelsOnParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blinkid.toml")
	writeConfig(t, path, "[logging]\nlevel = \"info\"\n")

	logging.Initialize(logging.Config{Level: "info", Format: "text", Modules: map[string]string{"gesture": "debug"}})
	gestureLogger := logging.GetLogger("gesture")

	failed := make(chan struct{}, 1)
	load := resolveLogging(loggingOptions{Config: path, LoggingLevel: "info"})
	w, err := WatchLogging(path, func() (logging.Config, error) {
		cfg, err := load()
		if err != nil {
			select {
			case failed <- struct{}{}:
			default:
			}
		}
		return cfg, err
	}, newTestLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	time.Sleep(100 * time.Millisecond)

	writeConfig(t, path, "[logging\nlevel =")
	select {
	case <-failed:
	case <-time.After(3 * time.Second):
		t.Fatal("broken file never reloaded")
	}
	if !gestureLogger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("parse error reset module levels")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := newError(ErrCodeParseFailed, "bad file", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is did not reach the cause")
	}
	var cfgErr *Error
	if !errors.As(fmt.Errorf("wrapped: %w", err), &cfgErr) || cfgErr.Code != ErrCodeParseFailed {
		t.Errorf("errors.As failed, got %v", cfgErr)
	}
	if got := err.Error(); got != "PARSE_FAILED: bad file: boom" {
		t.Errorf("Error() = %q", got)
	}
	if got := newError(ErrCodeZeroBlinks, "x", nil).Error(); got != "ZERO_BLINKS: x" {
		t.Errorf("Error() without cause = %q", got)
	}
}
