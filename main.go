package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/blinkid/cmd"
	"github.com/smazurov/blinkid/internal/api"
	"github.com/smazurov/blinkid/internal/app"
	"github.com/smazurov/blinkid/internal/button"
	"github.com/smazurov/blinkid/internal/config"
	"github.com/smazurov/blinkid/internal/events"
	"github.com/smazurov/blinkid/internal/led"
	"github.com/smazurov/blinkid/internal/logging"
	"github.com/smazurov/blinkid/internal/metrics/exporters"
	"github.com/smazurov/blinkid/internal/systemd"
	"github.com/smazurov/blinkid/internal/version"
	"github.com/spf13/cobra"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `doc:"Path to configuration file" short:"c" default:"blinkid.toml"`

	// Timing settings
	TimingPWMPeriodUS     int `name:"timing-pwm-period-us" doc:"Software PWM period in microseconds" default:"1000" toml:"timing.pwm_period_us" env:"TIMING_PWM_PERIOD_US"`
	TimingFadeStep        int `doc:"Duty increment per fade step (1-100)" default:"1" toml:"timing.fade_step" env:"TIMING_FADE_STEP"`
	TimingDoubleClickMS   int `name:"timing-double-click-ms" doc:"Double-click window in milliseconds" default:"500" toml:"timing.double_click_ms" env:"TIMING_DOUBLE_CLICK_MS"`
	TimingInterLEDPauseMS int `name:"timing-inter-led-pause-ms" doc:"Pause between LEDs in milliseconds" default:"1000" toml:"timing.inter_led_pause_ms" env:"TIMING_INTER_LED_PAUSE_MS"`
	TimingIdlePollMS      int `name:"timing-idle-poll-ms" doc:"Poll interval while inactive in milliseconds" default:"10" toml:"timing.idle_poll_ms" env:"TIMING_IDLE_POLL_MS"`

	// Policy settings
	PolicyDeactivate string `doc:"LED behaviour on deactivation (hard_off, natural)" default:"hard_off" toml:"policy.deactivate" env:"POLICY_DEACTIVATE"`

	// LED settings
	LEDDriver string `name:"led-driver" doc:"LED driver (auto, sysfs, gpio, noop)" default:"auto" toml:"led.driver" env:"LED_DRIVER"`

	// Button settings
	ButtonSource     string `doc:"Button input (gpio, stdin, none)" default:"gpio" toml:"button.source" env:"BUTTON_SOURCE"`
	ButtonGPIO       int    `name:"button-gpio" doc:"Button GPIO line number" default:"27" toml:"button.gpio" env:"BUTTON_GPIO"`
	ButtonActiveLow  bool   `doc:"Button reads low when pressed (pull-up)" default:"true" toml:"button.active_low" env:"BUTTON_ACTIVE_LOW"`
	ButtonPollMS     int    `name:"button-poll-ms" doc:"Button sampling interval in milliseconds" default:"5" toml:"button.poll_ms" env:"BUTTON_POLL_MS"`
	ButtonDebounceMS int    `name:"button-debounce-ms" doc:"Button debounce window in milliseconds" default:"20" toml:"button.debounce_ms" env:"BUTTON_DEBOUNCE_MS"`

	// Server settings
	ServerEnabled          bool   `doc:"Enable the status API" default:"false" toml:"server.enabled" env:"SERVER_ENABLED"`
	ServerPort             string `doc:"Status API listen address" short:"p" default:":8091" toml:"server.port" env:"SERVER_PORT"`
	ServerStatusIntervalMS int    `name:"server-status-interval-ms" doc:"Status snapshot interval for SSE clients in milliseconds" default:"1000" toml:"server.status_interval_ms" env:"SERVER_STATUS_INTERVAL_MS"`

	// Auth settings
	AuthUsername string `doc:"Basic auth username (empty disables auth)" default:"" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `doc:"Basic auth password" default:"" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel    string `doc:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `doc:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingGesture  string `doc:"Gesture logging level" default:"" toml:"logging.gesture" env:"LOGGING_GESTURE"`
	LoggingSequence string `doc:"Sequence logging level" default:"" toml:"logging.sequence" env:"LOGGING_SEQUENCE"`
	LoggingLED      string `name:"logging-led" doc:"LED logging level" default:"" toml:"logging.led" env:"LOGGING_LED"`
	LoggingButton   string `doc:"Button logging level" default:"" toml:"logging.button" env:"LOGGING_BUTTON"`
	LoggingAPI      string `name:"logging-api" doc:"API logging level" default:"" toml:"logging.api" env:"LOGGING_API"`
}

// loggingConfig resolves log levels. Modules without their own option, such
// as "config" or "metrics", take their level from the [logging] table.
func (o *Options) loggingConfig() logging.Config {
	modules := make(map[string]string)
	if file, err := config.LoadLoggingConfig(o.Config); err == nil {
		maps.Copy(modules, file.Modules)
	}
	for module, level := range map[string]string{
		"gesture":  o.LoggingGesture,
		"sequence": o.LoggingSequence,
		"led":      o.LoggingLED,
		"button":   o.LoggingButton,
		"api":      o.LoggingAPI,
		"http":     o.LoggingAPI,
	} {
		if level != "" {
			modules[module] = level
		}
	}
	return logging.Config{Level: o.LoggingLevel, Format: o.LoggingFormat, Modules: modules}
}

// reloadLogging re-resolves log levels from a copy of the startup options,
// so flags and BLINKID_ variables keep precedence over the edited file.
func (o *Options) reloadLogging(root *cobra.Command) func() (logging.Config, error) {
	return func() (logging.Config, error) {
		fresh := *o
		if err := config.LoadConfig(&fresh, root); err != nil {
			return logging.Config{}, err
		}
		return fresh.loggingConfig(), nil
	}
}

func (o *Options) timing() config.Timing {
	return config.Timing{
		PWMPeriodUS:     o.TimingPWMPeriodUS,
		FadeStep:        o.TimingFadeStep,
		DoubleClickMS:   o.TimingDoubleClickMS,
		InterLEDPauseMS: o.TimingInterLEDPauseMS,
		IdlePollMS:      o.TimingIdlePollMS,
	}
}

func (o *Options) buttonSource(bus *events.Bus) (button.Source, error) {
	switch o.ButtonSource {
	case "gpio":
		return button.NewGPIO(button.GPIOConfig{
			Line:         o.ButtonGPIO,
			ActiveLow:    o.ButtonActiveLow,
			PollInterval: time.Duration(o.ButtonPollMS) * time.Millisecond,
			Debounce:     time.Duration(o.ButtonDebounceMS) * time.Millisecond,
		}, bus, logging.GetLogger("button")), nil
	case "stdin":
		return button.NewStdin(os.Stdin, bus, logging.GetLogger("button")), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown button source %q", o.ButtonSource)
	}
}

func (o *Options) settings() cmd.Settings {
	return cmd.Settings{
		ConfigPath: o.Config,
		LEDDriver:  o.LEDDriver,
		Policy:     o.PolicyDeactivate,
		Timing:     o.timing(),
	}
}

// shutdownTimeout bounds how long OnStop waits for LEDs to be switched off.
const shutdownTimeout = 5 * time.Second

// serve runs the daemon until ctx is cancelled. Errors are returned rather
// than exiting so the LED driver and GPIO lines are always released.
func serve(ctx context.Context, opts *Options, root *cobra.Command, notifier *systemd.Notifier, logger *slog.Logger) error {
	logger.Info("Starting blinkid", "version", version.Get().Long())

	policy, ok := led.ParsePolicy(opts.PolicyDeactivate)
	if !ok {
		return fmt.Errorf("invalid deactivation policy %q", opts.PolicyDeactivate)
	}

	hw, err := config.LoadHardware(opts.Config)
	if err != nil {
		return fmt.Errorf("load hardware config: %w", err)
	}
	if err := hw.Validate(opts.LEDDriver); err != nil {
		return fmt.Errorf("invalid hardware config: %w", err)
	}

	driver, err := led.New(hw.LEDConfig(opts.LEDDriver), logging.GetLogger("led"))
	if err != nil {
		return fmt.Errorf("initialize LED driver: %w", err)
	}
	defer func() {
		if closeErr := driver.Close(); closeErr != nil {
			logger.Warn("Failed to close LED driver", "error", closeErr)
		}
	}()

	eventBus := events.New()

	src, err := opts.buttonSource(eventBus)
	if err != nil {
		return fmt.Errorf("invalid button config: %w", err)
	}

	core, err := app.New(app.Config{
		Sequence: hw.Sequence,
		Timing:   opts.timing(),
		Policy:   policy,
	}, driver, src, eventBus)
	if err != nil {
		return fmt.Errorf("initialize blink controller: %w", err)
	}

	// Logging levels follow the config file at runtime
	if watcher, watchErr := config.WatchLogging(opts.Config, opts.reloadLogging(root), logging.GetLogger("config")); watchErr != nil {
		logger.Warn("Config file watching disabled", "error", watchErr)
	} else {
		defer func() {
			if stopErr := watcher.Stop(); stopErr != nil {
				logger.Warn("Error stopping config watcher", "error", stopErr)
			}
		}()
	}

	if opts.ServerEnabled {
		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Controller:        core.Controller,
			Gesture:           core.Detector,
			EventBus:          eventBus,
			PrometheusHandler: exporters.HTTPHandler(),
		})
		statusExporter := exporters.NewSSEExporter(eventBus, core.Controller, core.Detector,
			time.Duration(opts.ServerStatusIntervalMS)*time.Millisecond)
		statusExporter.Start(ctx)
		defer statusExporter.Stop()

		go func() {
			if startErr := server.Start(opts.ServerPort); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
			}
		}()
		defer func() {
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}
		}()
	}

	notifier.Ready(ctx, core.Controller)
	notifier.Status("sequence " + hw.Sequence.String())

	return core.Run(ctx)
}

func main() {
	var cli humacli.CLI
	var parsed *Options
	var failed bool

	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		parsed = opts

		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(opts.loggingConfig())
		logger := logging.GetLogger("main")

		ctx, cancel := context.WithCancel(context.Background())
		stopped := make(chan struct{})
		notifier := systemd.NewNotifier(logger)

		hooks.OnStart(func() {
			defer close(stopped)
			if err := serve(ctx, opts, cli.Root(), notifier, logger); err != nil {
				logger.Error("blinkid failed", "error", err)
				failed = true
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			notifier.Stopping()
			cancel()
			select {
			case <-stopped:
			case <-time.After(shutdownTimeout):
				logger.Warn("Timed out waiting for blink controller to stop")
			}
		})
	})

	cli.Root().Use = "blinkid"
	cli.Root().Short = "LED identifier blink controller"
	cli.Root().Version = version.Get().Long()

	settings := func() cmd.Settings { return parsed.settings() }
	cli.Root().AddCommand(cmd.CreateValidateCmd(settings))
	cli.Root().AddCommand(cmd.CreateSimulateCmd(settings))

	cli.Run()
	if failed {
		os.Exit(1)
	}
}
