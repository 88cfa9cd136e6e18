// Package logging gives every blinknode component a slog logger with its
// own level.
//
// Call [Initialize] once at startup, then ask for a module logger:
//
//	logging.Initialize(logging.Config{
//		Level:   "info",
//		Format:  "text",
//		Modules: map[string]string{"server": "debug"},
//	})
//	logger := logging.GetLogger("server")
//	logger.Info("Control surface listening", "addr", ":80")
//
// The module names in use are listed in [Modules]. A module without an
// entry in Config.Modules logs at the global level.
//
// Each record goes to stdout (text or json) when stdout is attached, to
// journald when it is listening, and to an in-memory [History] served by
// the admin API. [SetLogCallback] taps the same entries as they arrive.
//
// Journal entries carry SYSLOG_IDENTIFIER=blinknode and one upper-case
// field per attribute:
//
//	journalctl -t blinknode MODULE=router
//	journalctl -t blinknode -p warning -f
package logging
