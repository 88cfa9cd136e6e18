package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// HistorySize is the number of entries kept for /api/logs.
const HistorySize = 1000

// Modules lists the loggers blinknode creates. Config keys outside this
// set are still honoured, they just have no logger to apply to yet.
var Modules = []string{"main", "server", "router", "led", "api", "netwait", "watcher"}

// Config represents logging configuration.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

// levelFor resolves the level of one module: its own entry, else the
// global level, else info.
func (c Config) levelFor(module string) slog.Level {
	if l, ok := parseLevel(c.Modules[module]); ok {
		return l
	}
	if l, ok := parseLevel(c.Level); ok {
		return l
	}
	return slog.LevelInfo
}

// registry owns every module logger. Loggers handed out before
// Initialize keep working; Initialize only moves their level.
type registry struct {
	mu       sync.RWMutex
	cfg      Config
	loggers  map[string]*slog.Logger
	levels   map[string]*slog.LevelVar
	history  *History
	callback LogCallback
}

var reg = newRegistry()

func newRegistry() *registry {
	return &registry{
		cfg:     Config{Format: "text"},
		loggers: make(map[string]*slog.Logger),
		levels:  make(map[string]*slog.LevelVar),
	}
}

// sink returns where handled entries go at this moment.
func (r *registry) sink() (*History, LogCallback) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.history, r.callback
}

// Initialize applies config to every existing and future module logger,
// starts a fresh history and installs the default slog logger.
func Initialize(config Config) {
	reg.mu.Lock()
	reg.cfg = config
	reg.history = NewHistory(HistorySize)
	for module, lv := range reg.levels {
		lv.Set(config.levelFor(module))
	}
	root := new(slog.LevelVar)
	root.Set(config.levelFor(""))
	format := config.Format
	reg.mu.Unlock()

	slog.SetDefault(slog.New(newHandler(format, root, "app")))
}

// GetBuffer returns the log history, or nil before Initialize.
func GetBuffer() *History {
	h, _ := reg.sink()
	return h
}

// SetLogCallback installs fn to receive every entry after it is stored.
// fn runs on the logging goroutine and must not log.
func SetLogCallback(fn LogCallback) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.callback = fn
}

// GetLogger returns the logger of a module, creating it on first use.
// The logger carries a module attribute.
func GetLogger(module string) *slog.Logger {
	reg.mu.RLock()
	logger, ok := reg.loggers[module]
	reg.mu.RUnlock()
	if ok {
		return logger
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if logger, ok := reg.loggers[module]; ok {
		return logger
	}

	lv := new(slog.LevelVar)
	lv.Set(reg.cfg.levelFor(module))
	logger = slog.New(newHandler(reg.cfg.Format, lv, module)).With("module", module)
	reg.loggers[module] = logger
	reg.levels[module] = lv
	return logger
}

// newHandler builds the output chain of one module: stdout when it goes
// somewhere, the journal when journald listens, and always the history.
func newHandler(format string, level slog.Leveler, module string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var out fanout
	if stdoutAttached() {
		if format == "json" {
			out = append(out, slog.NewJSONHandler(os.Stdout, opts))
		} else {
			out = append(out, slog.NewTextHandler(os.Stdout, opts))
		}
	}
	if journalEnabled() {
		out = append(out, newJournalHandler(level))
	}
	out = append(out, newHistoryHandler(level, module, reg.sink))

	if len(out) == 1 {
		return out[0]
	}
	return out
}

// stdoutAttached is false when stdout has been closed.
func stdoutAttached() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	m := fi.Mode()
	return m.IsRegular() || m&(os.ModeCharDevice|os.ModeNamedPipe|os.ModeSocket) != 0
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return 0, false
}

// levelName is the lowercase level used in history entries.
func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warn"
	case l >= slog.LevelInfo:
		return "info"
	}
	return "debug"
}
