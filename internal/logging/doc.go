// Package logging hands out one slog.Logger per component ("gesture",
// "sequence", "led", "button", "api", ...), each tagged with a module
// attribute and gated by its own slog.LevelVar.
//
// Records go to stdout (text or json) when stdout is attached, and to the
// systemd journal when journald is running:
//
//	logging.Initialize(logging.Config{
//		Level:   "info",
//		Modules: map[string]string{"gesture": "debug"},
//	})
//	log := logging.GetLogger("gesture")
//	log.Debug("second click", "window", 500*time.Millisecond)
//
// Loggers may be fetched before Initialize; they start at info and pick up
// their configured level when Initialize or SetLevels runs. The config
// watcher calls SetLevels whenever the [logging] table of blinkid.toml
// changes.
//
// Journal entries carry SYSLOG_IDENTIFIER=blinkid and one field per
// attribute, so a single component can be followed with:
//
//	journalctl -t blinkid MODULE=sequence -f
package logging
