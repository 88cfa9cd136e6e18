package systemd

import (
	"log/slog"

	"github.com/coreos/go-systemd/v22/daemon"
)

// NotifyReady tells systemd the service finished starting. It is a
// no-op outside a Type=notify unit.
func NotifyReady(logger *slog.Logger) {
	notify(logger, daemon.SdNotifyReady)
}

// NotifyStopping tells systemd the service is shutting down.
func NotifyStopping(logger *slog.Logger) {
	notify(logger, daemon.SdNotifyStopping)
}

func notify(logger *slog.Logger, state string) {
	sent, err := daemon.SdNotify(false, state)
	switch {
	case err != nil:
		logger.Warn("sd_notify failed", "state", state, "error", err)
	case sent:
		logger.Debug("sd_notify sent", "state", state)
	}
}
