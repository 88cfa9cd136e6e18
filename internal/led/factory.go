package led

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// Driver kinds accepted by New.
const (
	KindAuto   = "auto"
	KindGPIO   = "gpio"
	KindSysfs  = "sysfs"
	KindMemory = "memory"
)

// Config selects and parameterises a Driver backend.
type Config struct {
	Kind       string
	Chip       string     // GPIO chip name, e.g. "gpiochip0"
	Lines      [Count]int // line offsets per channel
	SysfsRoot  string     // defaults to /sys/class/leds
	SysfsNames [Count]string
}

// DefaultConfig wires the channels to gpiochip0 lines 2, 4 and 16.
func DefaultConfig() Config {
	return Config{
		Kind:       KindAuto,
		Chip:       "gpiochip0",
		Lines:      [Count]int{2, 4, 16},
		SysfsNames: channelNames,
	}
}

// New creates a Driver for the configured kind.
// KindAuto prefers the GPIO chip, then sysfs LEDs, and falls back to an
// in-memory driver when neither is present.
func New(cfg Config, logger *slog.Logger) (Driver, error) {
	switch cfg.Kind {
	case KindGPIO:
		return newGPIO(cfg.Chip, cfg.Lines, logger)
	case KindSysfs:
		return newSysfs(cfg.SysfsRoot, cfg.SysfsNames)
	case KindMemory:
		logger.Info("Using in-memory channel driver")
		return NewMemory(), nil
	case KindAuto, "":
	default:
		return nil, fmt.Errorf("unknown driver kind %q", cfg.Kind)
	}

	boardModel := detectBoard()
	logger.Info("Detecting board for channel driver", "board_model", boardModel)

	if _, err := os.Stat(filepath.Join("/dev", cfg.Chip)); err == nil {
		drv, gpioErr := newGPIO(cfg.Chip, cfg.Lines, logger)
		if gpioErr == nil {
			logger.Info("Using GPIO channel driver", "chip", cfg.Chip)
			return drv, nil
		}
		logger.Warn("GPIO chip present but lines unavailable", "chip", cfg.Chip, "error", gpioErr)
	}

	if drv, err := newSysfs(cfg.SysfsRoot, cfg.SysfsNames); err == nil {
		logger.Info("Using sysfs channel driver")
		return drv, nil
	}

	logger.Info("No channel hardware detected, using in-memory driver", "board_model", boardModel)
	return NewMemory(), nil
}

// ParseLines parses a comma-separated list of exactly Count line offsets.
func ParseLines(s string) ([Count]int, error) {
	var lines [Count]int
	parts := splitList(s)
	if len(parts) != Count {
		return lines, fmt.Errorf("expected %d line offsets, got %d in %q", Count, len(parts), s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return lines, fmt.Errorf("invalid line offset %q", p)
		}
		lines[i] = n
	}
	return lines, nil
}

// ParseNames parses a comma-separated list of exactly Count sysfs LED names.
func ParseNames(s string) ([Count]string, error) {
	var names [Count]string
	parts := splitList(s)
	if len(parts) != Count {
		return names, fmt.Errorf("expected %d LED names, got %d in %q", Count, len(parts), s)
	}
	copy(names[:], parts)
	return names, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// detectBoard reads the device tree model to identify the board.
func detectBoard() string {
	data, err := os.ReadFile(deviceTreeModelPath)
	if err != nil {
		return "unknown"
	}

	// Device tree model contains null bytes, trim them
	return strings.TrimRight(string(data), "\x00")
}
