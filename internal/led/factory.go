package led

import (
	"fmt"
	"os"
	"strings"

	"github.com/smazurov/blinkid/internal/logging"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// Driver names accepted by New.
const (
	DriverAuto  = "auto"
	DriverSysfs = "sysfs"
	DriverGPIO  = "gpio"
	DriverNoop  = "noop"
)

// Line maps one LED to its hardware. Name selects a LED class device,
// GPIO a sysfs GPIO line; a line may carry both. A nil GPIO is unmapped.
type Line struct {
	LED       ID
	Name      string
	GPIO      *int
	ActiveLow bool
}

// Config selects and configures the driver.
type Config struct {
	Driver string
	Lines  []Line

	// Overridable for tests.
	LEDRoot   string
	GPIORoot  string
	ModelPath string
}

// New creates the driver named by cfg.Driver. With "auto" the board model is
// logged and the first driver the line mapping supports is used, falling
// back to no-op. An explicit driver that fails to open is an error.
func New(cfg Config, logger logging.Logger) (Driver, error) {
	ids := make([]ID, 0, len(cfg.Lines))
	for _, l := range cfg.Lines {
		ids = append(ids, l.LED)
	}

	switch strings.ToLower(cfg.Driver) {
	case DriverSysfs:
		return newSysfs(cfg.LEDRoot, classNames(cfg.Lines), logger)
	case DriverGPIO:
		return newGPIO(cfg.GPIORoot, gpioLines(cfg.Lines), logger)
	case DriverNoop:
		return newNoop(ids, logger), nil
	case DriverAuto, "":
	default:
		return nil, fmt.Errorf("unknown LED driver %q", cfg.Driver)
	}

	modelPath := cfg.ModelPath
	if modelPath == "" {
		modelPath = deviceTreeModelPath
	}
	logger.Info("Detecting board for LED control", "board_model", detectBoard(modelPath))

	if names := classNames(cfg.Lines); len(names) == len(cfg.Lines) && len(names) > 0 {
		d, err := newSysfs(cfg.LEDRoot, names, logger)
		if err == nil {
			logger.Info("Using sysfs LED class driver", "leds", len(names))
			return d, nil
		}
		logger.Debug("sysfs LED class not usable", "error", err)
	}
	if pins := gpioLines(cfg.Lines); len(pins) == len(cfg.Lines) && len(pins) > 0 {
		d, err := newGPIO(cfg.GPIORoot, pins, logger)
		if err == nil {
			logger.Info("Using sysfs GPIO LED driver", "leds", len(pins))
			return d, nil
		}
		logger.Debug("sysfs GPIO not usable", "error", err)
	}

	logger.Info("No LED support detected, using no-op driver")
	return newNoop(ids, logger), nil
}

func classNames(lines []Line) map[ID]string {
	m := make(map[ID]string, len(lines))
	for _, l := range lines {
		if l.Name != "" {
			m[l.LED] = l.Name
		}
	}
	return m
}

func gpioLines(lines []Line) map[ID]GPIOLine {
	m := make(map[ID]GPIOLine, len(lines))
	for _, l := range lines {
		if l.GPIO != nil {
			m[l.LED] = GPIOLine{Number: *l.GPIO, ActiveLow: l.ActiveLow}
		}
	}
	return m
}

// detectBoard reads the device tree model to identify the board.
func detectBoard(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "unknown"
	}

	// Device tree model contains null bytes, trim them
	return strings.TrimRight(string(data), "\x00")
}
