package led

import (
	"slices"

	"github.com/smazurov/blinkid/internal/logging"
)

// noop is a Driver for hosts without LED support and for simulation.
type noop struct {
	ids    []ID
	logger logging.Logger
}

func newNoop(ids []ID, logger logging.Logger) *noop {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	return &noop{ids: ids, logger: logger}
}

// Set is silent; it runs once per PWM phase.
func (n *noop) Set(ID, Level) {}

func (n *noop) AllOff() {
	n.logger.Debug("LED control not available (no-op), all off")
}

func (n *noop) Available() []ID {
	return slices.Clone(n.ids)
}

func (n *noop) Close() error { return nil }
