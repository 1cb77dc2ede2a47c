// Package systemd reports service state to the systemd manager.
package systemd

import (
	"context"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/smazurov/blinkid/internal/logging"
)

// NotifyFunc sends a state string to the service manager. It matches
// daemon.SdNotify.
type NotifyFunc func(unsetEnvironment bool, state string) (bool, error)

// WatchdogFunc reports the configured watchdog interval. It matches
// daemon.SdWatchdogEnabled.
type WatchdogFunc func(unsetEnvironment bool) (time.Duration, error)

// Progress is a counter the supervised loop advances while it works.
// *sequence.Controller implements it.
type Progress interface {
	Heartbeat() uint64
}

// Notifier wraps sd_notify. Outside systemd every call is a no-op.
type Notifier struct {
	notify   NotifyFunc
	watchdog WatchdogFunc
	logger   logging.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewNotifier creates a notifier backed by the NOTIFY_SOCKET environment.
func NewNotifier(logger logging.Logger) *Notifier {
	return newNotifier(daemon.SdNotify, daemon.SdWatchdogEnabled, logger)
}

func newNotifier(notify NotifyFunc, watchdog WatchdogFunc, logger logging.Logger) *Notifier {
	return &Notifier{notify: notify, watchdog: watchdog, logger: logger}
}

func (n *Notifier) send(state string) {
	sent, err := n.notify(false, state)
	switch {
	case err != nil:
		n.logger.Warn("sd_notify failed", "state", state, "error", err)
	case sent:
		n.logger.Debug("sd_notify sent", "state", state)
	}
}

// Ready reports startup completion and starts watchdog pings when the
// unit has WatchdogSec set. With a non-nil progress, a ping is only sent
// if the heartbeat moved since the previous tick, so a stalled main loop
// lets the watchdog expire.
func (n *Notifier) Ready(ctx context.Context, progress Progress) {
	n.send(daemon.SdNotifyReady)

	interval, err := n.watchdog(false)
	if err != nil {
		n.logger.Warn("Failed to read watchdog settings", "error", err)
		return
	}
	if interval <= 0 {
		return
	}

	var runCtx context.Context
	runCtx, n.cancel = context.WithCancel(ctx)
	n.wg.Add(1)
	go n.ping(runCtx, interval/2, progress)
	n.logger.Info("Watchdog enabled", "interval", interval)
}

func (n *Notifier) ping(ctx context.Context, every time.Duration, progress Progress) {
	defer n.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	var last uint64
	if progress != nil {
		last = progress.Heartbeat()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if progress != nil {
				beat := progress.Heartbeat()
				if beat == last {
					n.logger.Warn("Main loop made no progress, withholding watchdog ping", "heartbeat", beat)
					continue
				}
				last = beat
			}
			n.send(daemon.SdNotifyWatchdog)
		}
	}
}

// Status sets the free-form status line shown by systemctl status.
func (n *Notifier) Status(status string) {
	n.send("STATUS=" + status)
}

// Stopping reports shutdown and stops watchdog pings.
func (n *Notifier) Stopping() {
	if n.cancel != nil {
		n.cancel()
	}
	n.wg.Wait()
	n.send(daemon.SdNotifyStopping)
}
