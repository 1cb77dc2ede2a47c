package button

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smazurov/blinkid/internal/events"
	"github.com/smazurov/blinkid/internal/led"
	"github.com/smazurov/blinkid/internal/logging"
)

// Defaults for the GPIO poller.
const (
	DefaultPollInterval = 5 * time.Millisecond
	DefaultDebounce     = 20 * time.Millisecond
)

// GPIOConfig describes a button on a sysfs GPIO input line.
type GPIOConfig struct {
	Line         int
	ActiveLow    bool // pull-up wiring: pressed reads 0
	PollInterval time.Duration
	Debounce     time.Duration
	Root         string // defaults to /sys/class/gpio
}

// GPIO polls a sysfs GPIO value file.
type GPIO struct {
	cfg    GPIOConfig
	h      *handoff
	logger logging.Logger
	value  *os.File
	cancel context.CancelFunc
	done   chan struct{}
}

// NewGPIO creates a poller for cfg.
func NewGPIO(cfg GPIOConfig, bus *events.Bus, logger logging.Logger) *GPIO {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Debounce < 0 {
		cfg.Debounce = 0
	}
	if cfg.Root == "" {
		cfg.Root = "/sys/class/gpio"
	}
	return &GPIO{
		cfg:    cfg,
		h:      newHandoff(fmt.Sprintf("gpio%d", cfg.Line), bus, logger),
		logger: logger,
	}
}

// Start configures the line as an input and begins polling.
func (g *GPIO) Start(ctx context.Context, onPress func()) error {
	dir, err := led.ExportGPIO(g.cfg.Root, g.cfg.Line)
	if err != nil {
		return fmt.Errorf("button: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "direction"), []byte("in"), 0644); err != nil {
		return fmt.Errorf("failed to set button GPIO %d as input: %w", g.cfg.Line, err)
	}
	// Edge reporting is optional; the poller does not depend on it.
	_ = os.WriteFile(filepath.Join(dir, "edge"), []byte("falling"), 0644)

	f, err := os.Open(filepath.Join(dir, "value"))
	if err != nil {
		return fmt.Errorf("failed to open button GPIO %d: %w", g.cfg.Line, err)
	}
	g.value = f

	initial, err := g.pressed()
	if err != nil {
		f.Close()
		return err
	}

	ctx, g.cancel = context.WithCancel(ctx)
	g.done = make(chan struct{})
	g.h.run(ctx, onPress)
	go g.poll(ctx, initial)

	g.logger.Info("Button polling started",
		"gpio", g.cfg.Line,
		"active_low", g.cfg.ActiveLow,
		"poll_interval", g.cfg.PollInterval,
		"debounce", g.cfg.Debounce)
	return nil
}

func (g *GPIO) poll(ctx context.Context, initial bool) {
	defer close(g.done)
	ticker := time.NewTicker(g.cfg.PollInterval)
	defer ticker.Stop()

	deb := newDebouncer(g.cfg.Debounce, initial, time.Now())
	failed := false
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			pressed, err := g.pressed()
			if err != nil {
				if !failed {
					g.logger.Warn("Button read failed", "gpio", g.cfg.Line, "error", err)
					failed = true
				}
				continue
			}
			failed = false
			if deb.update(pressed, now) {
				g.h.offer()
			}
		}
	}
}

// pressed reads the line and applies polarity.
func (g *GPIO) pressed() (bool, error) {
	var buf [1]byte
	if _, err := g.value.ReadAt(buf[:], 0); err != nil {
		return false, fmt.Errorf("failed to read button GPIO %d: %w", g.cfg.Line, err)
	}
	high := buf[0] == '1'
	return high != g.cfg.ActiveLow, nil
}

// Stop ends polling and releases the line.
func (g *GPIO) Stop() {
	if g.cancel == nil {
		return
	}
	g.cancel()
	<-g.done
	g.h.wait()
	g.value.Close()
	g.cancel = nil
	g.logger.Info("Button polling stopped", "gpio", g.cfg.Line, "dropped", g.h.Dropped())
}
