// Package led drives the indicator LEDs: the Driver interface used by the
// PWM generator, Linux sysfs implementations, and the Manager applying the
// deactivation policy.
package led

import "strings"

// ID names one LED, e.g. "yellow".
type ID string

// Level is the logical state of an LED line.
type Level bool

// LED levels. Polarity of the electrical line is handled by the driver.
const (
	Off Level = false
	On  Level = true
)

func (l Level) String() string {
	if l {
		return "on"
	}
	return "off"
}

// Driver sets LED lines high or low.
// Set is called from the PWM loop thousands of times per second and must not
// block or allocate; write failures are counted and logged by the driver
// instead of being returned.
type Driver interface {
	// Set drives the LED to level. Unknown IDs are ignored.
	Set(id ID, level Level)

	// AllOff turns every LED off. Safe to call from any goroutine.
	AllOff()

	// Available returns the LEDs this driver can control, sorted by name.
	Available() []ID

	// Close releases the underlying lines.
	Close() error
}

// Policy decides what happens to the LEDs when a double-click deactivates
// the sequence.
type Policy string

// Deactivation policies.
const (
	// PolicyHardOff forces all LEDs off immediately from the event context.
	PolicyHardOff Policy = "hard_off"
	// PolicyNatural leaves the LEDs to the controller, which turns the
	// interrupted LED off at the next fade step boundary.
	PolicyNatural Policy = "natural"
)

// ParsePolicy converts a config string to a Policy.
func ParsePolicy(s string) (Policy, bool) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyHardOff, "":
		return PolicyHardOff, true
	case PolicyNatural:
		return PolicyNatural, true
	default:
		return "", false
	}
}
