// Package pattern drives the output channels: it owns the per-channel
// enabled flags and the blink and rotate patterns, and computes the next
// output vector on every tick.
//
// An Engine is not safe for concurrent use. The event loop owns it and is
// the only goroutine that calls its methods; observers get copies through
// Snapshot.
package pattern

import (
	"fmt"

	"github.com/smazurov/blinknode/internal/led"
)

// Mode is the active output pattern.
type Mode int

// Blink and Rotate are mutually exclusive; Static is neither.
const (
	Static Mode = iota
	Blink
	Rotate
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case Blink:
		return "blink"
	case Rotate:
		return "rotate"
	default:
		return "static"
	}
}

// Modes lists every mode in declaration order.
func Modes() []Mode {
	return []Mode{Static, Blink, Rotate}
}

// Channel is the engine's view of one output.
type Channel struct {
	ID      led.ID
	Enabled bool // user intent
	Level   bool // last physical level written, true = high
}

// Active reports whether the channel is currently lit, taking polarity into account.
func (c Channel) Active() bool {
	return c.Level == led.ActiveLevel(c.ID)
}

// Snapshot is an immutable copy of the engine state.
type Snapshot struct {
	Channels      [led.Count]Channel
	Mode          Mode
	RotationIndex int
	Ticks         uint64
}

// Blink reports whether the blink pattern is running.
func (s Snapshot) Blink() bool { return s.Mode == Blink }

// Rotate reports whether the rotate pattern is running.
func (s Snapshot) Rotate() bool { return s.Mode == Rotate }

// Engine holds channel and pattern state and writes levels to a led.Driver.
type Engine struct {
	driver   led.Driver
	channels [led.Count]Channel
	mode     Mode
	rotation int
	ticks    uint64
}

// New creates an Engine in Static mode with every channel disabled.
// Channel levels are read back from the driver.
func New(driver led.Driver) (*Engine, error) {
	e := &Engine{driver: driver}
	for _, id := range led.All() {
		level, err := driver.Level(id)
		if err != nil {
			return nil, fmt.Errorf("read initial level: %w", err)
		}
		e.channels[id] = Channel{ID: id, Level: level}
	}
	return e, nil
}

// ToggleEnabled flips the enabled flag of one channel. Levels are left
// alone until the next tick.
func (e *Engine) ToggleEnabled(id led.ID) error {
	if !id.Valid() {
		return fmt.Errorf("toggle: %w: %d", led.ErrUnknownChannel, int(id))
	}
	e.channels[id].Enabled = !e.channels[id].Enabled
	return nil
}

// ToggleBlink starts or stops the blink pattern. Starting it stops rotation,
// enables every channel and resets it to baseline.
func (e *Engine) ToggleBlink() error {
	return e.togglePattern(Blink)
}

// ToggleRotate starts or stops the rotate pattern. Starting it stops
// blinking, resets the rotation index, enables every channel and resets it
// to baseline.
func (e *Engine) ToggleRotate() error {
	return e.togglePattern(Rotate)
}

func (e *Engine) togglePattern(m Mode) error {
	e.rotation = 0
	if e.mode == m {
		e.mode = Static
		return nil
	}
	e.mode = m
	for _, id := range led.All() {
		e.channels[id].Enabled = true
	}
	if err := e.resetLevels(); err != nil {
		return fmt.Errorf("start %s: %w", m, err)
	}
	return nil
}

// resetLevels writes the idle level of every channel.
func (e *Engine) resetLevels() error {
	for _, id := range led.All() {
		if err := e.set(id, led.IdleLevel(id)); err != nil {
			return err
		}
	}
	return nil
}

// Tick advances the outputs by one step of the current mode.
func (e *Engine) Tick() error {
	e.ticks++

	var err error
	switch e.mode {
	case Blink:
		err = e.tickBlink()
	case Rotate:
		err = e.tickRotate()
	default:
		err = e.tickStatic()
	}
	if err != nil {
		return fmt.Errorf("tick %s: %w", e.mode, err)
	}
	return nil
}

// tickStatic lights exactly the enabled channels.
func (e *Engine) tickStatic() error {
	for _, id := range led.All() {
		if err := e.set(id, physical(id, e.channels[id].Enabled)); err != nil {
			return err
		}
	}
	return nil
}

// tickBlink inverts every enabled channel and forces disabled ones idle.
func (e *Engine) tickBlink() error {
	for _, id := range led.All() {
		level := led.IdleLevel(id)
		if e.channels[id].Enabled {
			current, err := e.driver.Level(id)
			if err != nil {
				return err
			}
			level = !current
		}
		if err := e.set(id, level); err != nil {
			return err
		}
	}
	return nil
}

// tickRotate moves the turn to the next channel; only the channel holding
// the turn may be lit, and only if it is enabled.
func (e *Engine) tickRotate() error {
	e.rotation = (e.rotation + 1) % led.Count
	for _, id := range led.All() {
		active := e.rotation == int(id) && e.channels[id].Enabled
		if err := e.set(id, physical(id, active)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) set(id led.ID, level bool) error {
	if err := e.driver.SetLevel(id, level); err != nil {
		return err
	}
	e.channels[id].Level = level
	return nil
}

// physical maps a logical on/off to the pin level for the channel's polarity.
func physical(id led.ID, active bool) bool {
	if active {
		return led.ActiveLevel(id)
	}
	return led.IdleLevel(id)
}

// Enabled reports the enabled flag of a channel.
func (e *Engine) Enabled(id led.ID) bool {
	if !id.Valid() {
		return false
	}
	return e.channels[id].Enabled
}

// Mode returns the running pattern.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Channels:      e.channels,
		Mode:          e.mode,
		RotationIndex: e.rotation,
		Ticks:         e.ticks,
	}
}
