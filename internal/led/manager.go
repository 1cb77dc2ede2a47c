package led

import (
	"github.com/smazurov/blinkid/internal/events"
	"github.com/smazurov/blinkid/internal/logging"
)

// Manager subscribes to activation changes and applies the deactivation
// policy to the driver.
type Manager struct {
	driver      Driver
	eventBus    *events.Bus
	policy      Policy
	unsubscribe func()
	logger      logging.Logger
}

// NewManager creates a manager for driver.
func NewManager(driver Driver, eventBus *events.Bus, policy Policy, logger logging.Logger) *Manager {
	return &Manager{
		driver:   driver,
		eventBus: eventBus,
		policy:   policy,
		logger:   logger,
	}
}

// Start begins listening for activation events.
func (m *Manager) Start() {
	m.unsubscribe = m.eventBus.Subscribe(m.handleActivation)
	m.logger.Info("LED manager started", "policy", m.policy, "leds", m.driver.Available())
}

// Stop unsubscribes and turns all LEDs off.
func (m *Manager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.driver.AllOff()
	m.logger.Info("LED manager stopped")
}

func (m *Manager) handleActivation(e events.ActivationChangedEvent) {
	if e.Active {
		m.logger.Debug("Sequence activated")
		return
	}
	if m.policy == PolicyHardOff {
		m.driver.AllOff()
		m.logger.Debug("Sequence deactivated, all LEDs forced off")
		return
	}
	m.logger.Debug("Sequence deactivated, controller will finish the current step")
}

