// Package app assembles the blink controller from its parts: button
// source, gesture detector, PWM fade renderer, sequence controller and
// LED policy manager.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/smazurov/blinkid/internal/button"
	"github.com/smazurov/blinkid/internal/clock"
	"github.com/smazurov/blinkid/internal/config"
	"github.com/smazurov/blinkid/internal/events"
	"github.com/smazurov/blinkid/internal/fade"
	"github.com/smazurov/blinkid/internal/gesture"
	"github.com/smazurov/blinkid/internal/led"
	"github.com/smazurov/blinkid/internal/logging"
	"github.com/smazurov/blinkid/internal/metrics/collectors"
	"github.com/smazurov/blinkid/internal/pwm"
	"github.com/smazurov/blinkid/internal/sequence"
)

// Config is the validated runtime configuration of the core.
type Config struct {
	Sequence sequence.Sequence
	Timing   config.Timing
	Policy   led.Policy
}

// App owns the core components for one process lifetime.
type App struct {
	Bus        *events.Bus
	Flag       *gesture.Flag
	Detector   *gesture.Detector
	Controller *sequence.Controller

	leds      *led.Manager
	button    button.Source
	collector *collectors.EventCollector
	logger    logging.Logger
}

// New wires the core around driver and src. src may be nil when presses
// only come from the API.
func New(cfg Config, driver led.Driver, src button.Source, bus *events.Bus) (*App, error) {
	if err := cfg.Timing.Validate(); err != nil {
		return nil, err
	}

	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }

	flag := &gesture.Flag{}
	detector := gesture.NewDetector(flag, &clock.AfterFunc{}, ms(cfg.Timing.DoubleClickMS), bus, logging.GetLogger("gesture"))

	mono := clock.NewMonotonic()
	renderer := fade.NewRenderer(pwm.NewGenerator(mono, driver), uint32(cfg.Timing.PWMPeriodUS), uint8(cfg.Timing.FadeStep))

	ctrl, err := sequence.NewController(cfg.Sequence, flag, renderer, driver, mono, sequence.Options{
		Pause:    ms(cfg.Timing.InterLEDPauseMS),
		IdlePoll: ms(cfg.Timing.IdlePollMS),
	}, bus, logging.GetLogger("sequence"))
	if err != nil {
		return nil, fmt.Errorf("failed to create sequence controller: %w", err)
	}

	return &App{
		Bus:        bus,
		Flag:       flag,
		Detector:   detector,
		Controller: ctrl,
		leds:       led.NewManager(driver, bus, cfg.Policy, logging.GetLogger("led")),
		button:     src,
		collector:  collectors.NewEventCollector(bus),
		logger:     logging.GetLogger("main"),
	}, nil
}

// Run starts the button source and runs the controller until ctx is done.
// All LEDs are off when Run returns.
func (a *App) Run(ctx context.Context) error {
	a.collector.Start()
	defer a.collector.Stop()

	a.leds.Start()
	defer a.leds.Stop()

	if a.button != nil {
		if err := a.button.Start(ctx, a.Detector.Press); err != nil {
			return fmt.Errorf("failed to start button source: %w", err)
		}
		defer a.button.Stop()
	}

	a.logger.Info("Blink controller running", "sequence", a.Controller.Sequence().String())
	return a.Controller.Run(ctx)
}
