package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/blinkid/internal/led"
	"github.com/smazurov/blinkid/internal/sequence"
)

// LEDLine maps an LED name to its hardware line.
type LEDLine struct {
	ID        string `toml:"id" json:"id"`
	Sysfs     string `toml:"sysfs,omitempty" json:"sysfs,omitempty"` // LED class device name
	GPIO      *int   `toml:"gpio,omitempty" json:"gpio,omitempty"` // nil when unmapped; line 0 is valid
	ActiveLow bool   `toml:"active_low,omitempty" json:"active_low,omitempty"`
}

// Hardware is the structured part of the config file: the identifier
// sequence and the LED line mapping.
//
//	[[sequence]]
//	led = "yellow"
//	blinks = 7
//
//	[[led]]
//	id = "yellow"
//	gpio = 17
//	active_low = true
type Hardware struct {
	Sequence sequence.Sequence `toml:"sequence" json:"sequence"`
	LEDs     []LEDLine         `toml:"led" json:"leds"`
}

// LoadHardware reads the sequence and LED mapping from path. A missing file
// or a file without a sequence yields the compiled-in default sequence.
func LoadHardware(path string) (Hardware, error) {
	var hw Hardware
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &hw); err != nil {
				return Hardware{}, newError(ErrCodeParseFailed, "failed to parse hardware config "+path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return Hardware{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	if hw.Sequence == nil {
		hw.Sequence = sequence.Default()
	}
	return hw, nil
}

// Validate checks the sequence and, for drivers that need one, that every
// LED in the sequence has a line mapping.
func (h Hardware) Validate(driver string) error {
	if err := h.Sequence.Validate(); err != nil {
		switch {
		case errors.Is(err, sequence.ErrEmpty):
			return newError(ErrCodeEmptySequence, "identifier sequence has no entries", err)
		case errors.Is(err, sequence.ErrZeroBlinks):
			return newError(ErrCodeZeroBlinks, "every sequence entry needs blinks >= 1", err)
		default:
			return newError(ErrCodeUnknownLED, "sequence entry without LED", err)
		}
	}

	lines := make(map[string]LEDLine, len(h.LEDs))
	for _, l := range h.LEDs {
		lines[l.ID] = l
	}
	for _, id := range h.Sequence.LEDs() {
		l, ok := lines[string(id)]
		switch strings.ToLower(driver) {
		case led.DriverSysfs:
			ok = ok && l.Sysfs != ""
		case led.DriverGPIO:
			ok = ok && l.GPIO != nil
		default:
			continue
		}
		if !ok {
			return newError(ErrCodeUnknownLED, fmt.Sprintf("LED %q has no %s line mapping", id, driver), nil)
		}
	}
	return nil
}

// LEDConfig builds the driver configuration. Every LED used by the
// sequence gets a line, mapped or not.
func (h Hardware) LEDConfig(driver string) led.Config {
	mapped := make(map[led.ID]LEDLine, len(h.LEDs))
	for _, l := range h.LEDs {
		mapped[led.ID(l.ID)] = l
	}

	cfg := led.Config{Driver: driver}
	for _, id := range h.Sequence.LEDs() {
		l := mapped[id]
		cfg.Lines = append(cfg.Lines, led.Line{
			LED:       id,
			Name:      l.Sysfs,
			GPIO:      l.GPIO,
			ActiveLow: l.ActiveLow,
		})
	}
	return cfg
}

// Timing holds the timing options in their config units.
type Timing struct {
	PWMPeriodUS     int
	FadeStep        int
	DoubleClickMS   int
	InterLEDPauseMS int
	IdlePollMS      int
}

// Validate rejects non-positive timings and fade steps outside 1..100.
func (t Timing) Validate() error {
	checks := []struct {
		name string
		v    int
		min  int
	}{
		{"timing.pwm_period_us", t.PWMPeriodUS, 1},
		{"timing.fade_step", t.FadeStep, 1},
		{"timing.double_click_ms", t.DoubleClickMS, 1},
		{"timing.inter_led_pause_ms", t.InterLEDPauseMS, 0},
		{"timing.idle_poll_ms", t.IdlePollMS, 1},
	}
	for _, c := range checks {
		if c.v < c.min {
			return newError(ErrCodeInvalidTiming, fmt.Sprintf("%s must be >= %d, got %d", c.name, c.min, c.v), nil)
		}
	}
	if t.FadeStep > 100 {
		return newError(ErrCodeInvalidTiming, fmt.Sprintf("timing.fade_step must be <= 100, got %d", t.FadeStep), nil)
	}
	return nil
}
