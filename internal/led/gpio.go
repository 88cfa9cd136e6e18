package led

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/warthog618/go-gpiocdev"
)

const gpioConsumer = "blinknode"

// gpio implements Driver over the Linux GPIO character device.
type gpio struct {
	chip   string
	lines  [Count]*gpiocdev.Line
	logger *slog.Logger
}

// newGPIO requests one output line per channel, initialised to its idle level.
func newGPIO(chip string, offsets [Count]int, logger *slog.Logger) (*gpio, error) {
	g := &gpio{chip: chip, logger: logger}

	for _, id := range All() {
		line, err := gpiocdev.RequestLine(chip, offsets[id],
			gpiocdev.AsOutput(levelToValue(IdleLevel(id))),
			gpiocdev.WithConsumer(gpioConsumer))
		if err != nil {
			_ = g.Close()
			return nil, fmt.Errorf("failed to request GPIO line %d on %s for %s: %w", offsets[id], chip, id, err)
		}
		g.lines[id] = line
		logger.Info("Configured channel", "channel", id.String(), "chip", chip, "line", offsets[id])
	}

	return g, nil
}

func (g *gpio) SetLevel(ch ID, high bool) error {
	if err := checkID(ch); err != nil {
		return err
	}
	if err := g.lines[ch].SetValue(levelToValue(high)); err != nil {
		return fmt.Errorf("failed to set %s=%v: %w", ch, high, err)
	}
	return nil
}

func (g *gpio) Level(ch ID) (bool, error) {
	if err := checkID(ch); err != nil {
		return false, err
	}
	v, err := g.lines[ch].Value()
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", ch, err)
	}
	return v != 0, nil
}

func (g *gpio) Close() error {
	var errs []error
	for id, line := range g.lines {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", ID(id), err))
		}
		g.lines[id] = nil
	}
	return errors.Join(errs...)
}

func levelToValue(high bool) int {
	if high {
		return 1
	}
	return 0
}
