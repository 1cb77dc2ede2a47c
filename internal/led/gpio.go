package led

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/smazurov/blinkid/internal/logging"
)

const sysfsGPIOPath = "/sys/class/gpio"

// gpio drives LEDs wired to plain GPIO lines through the sysfs GPIO
// interface. Active-low lines are lit by writing 0.
type gpio struct {
	lineSet
}

// GPIOLine describes one output line.
type GPIOLine struct {
	Number    int
	ActiveLow bool
}

func newGPIO(root string, pins map[ID]GPIOLine, logger logging.Logger) (*gpio, error) {
	if root == "" {
		root = sysfsGPIOPath
	}
	g := &gpio{lineSet{lines: make(map[ID]*line, len(pins)), logger: logger}}

	for id, pin := range pins {
		dir, err := ExportGPIO(root, pin.Number)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("LED %q: %w", id, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "direction"), []byte("out"), 0644); err != nil {
			g.Close()
			return nil, fmt.Errorf("failed to set direction for LED %q: %w", id, err)
		}

		on, off := []byte("1"), []byte("0")
		if pin.ActiveLow {
			on, off = off, on
		}
		l, err := openLine(id, filepath.Join(dir, "value"), on, off)
		if err != nil {
			g.Close()
			return nil, err
		}
		g.lines[id] = l
		logger.Debug("Configured GPIO LED", "led", id, "gpio", pin.Number, "active_low", pin.ActiveLow)
	}
	return g, nil
}

// ExportGPIO makes gpioN available under root and returns its directory.
// Lines that are already exported are used as they are.
func ExportGPIO(root string, n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("invalid GPIO number %d", n)
	}
	dir := filepath.Join(root, "gpio"+strconv.Itoa(n))
	if _, err := os.Stat(dir); err == nil {
		return dir, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to stat %s: %w", dir, err)
	}

	if err := os.WriteFile(filepath.Join(root, "export"), []byte(strconv.Itoa(n)), 0200); err != nil {
		return "", fmt.Errorf("failed to export GPIO %d: %w", n, err)
	}
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("GPIO %d not present after export: %w", n, err)
	}
	return dir, nil
}
