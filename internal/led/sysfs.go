package led

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/smazurov/blinkid/internal/logging"
)

const sysfsLEDPath = "/sys/class/leds"

// sysfs drives LEDs through the Linux LED class interface.
type sysfs struct {
	lineSet
}

// newSysfs opens /sys/class/leds/<name>/brightness for every mapped LED.
// The kernel trigger is set to "none" so nothing else toggles the line, and
// "on" writes the LED's max_brightness.
func newSysfs(root string, names map[ID]string, logger logging.Logger) (*sysfs, error) {
	if root == "" {
		root = sysfsLEDPath
	}
	s := &sysfs{lineSet{lines: make(map[ID]*line, len(names)), logger: logger}}

	for id, name := range names {
		ledPath := filepath.Join(root, name)
		if _, err := os.Stat(ledPath); err != nil {
			s.Close()
			return nil, fmt.Errorf("LED %q not found at %s: %w", id, ledPath, err)
		}

		triggerPath := filepath.Join(ledPath, "trigger")
		if err := os.WriteFile(triggerPath, []byte("none"), 0644); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to set LED trigger for %q: %w", id, err)
		}

		on := []byte(readMaxBrightness(ledPath))
		l, err := openLine(id, filepath.Join(ledPath, "brightness"), on, []byte("0"))
		if err != nil {
			s.Close()
			return nil, err
		}
		s.lines[id] = l
		logger.Debug("Configured LED", "led", id, "sysfs", name, "on_value", string(on))
	}
	return s, nil
}

// readMaxBrightness returns the LED's max_brightness, or "1" if unreadable.
func readMaxBrightness(ledPath string) string {
	data, err := os.ReadFile(filepath.Join(ledPath, "max_brightness"))
	if err != nil {
		return "1"
	}
	v := strings.TrimSpace(string(data))
	if v == "" || v == "0" {
		return "1"
	}
	return v
}
