package led

import (
	"errors"
	"fmt"
)

// ID identifies one of the output channels.
type ID int

// Channels in board order. The names follow the pin numbers of the
// reference board wiring (GPIO2, GPIO4, GPIO16).
const (
	LED2 ID = iota
	LED4
	LED16
)

// Count is the number of output channels.
const Count = 3

// ErrUnknownChannel is returned for an ID outside [0, Count).
var ErrUnknownChannel = errors.New("unknown channel")

var channelNames = [Count]string{"led2", "led4", "led16"}

// activeLow is the fixed wiring of the board: LED2 and LED16 sink current
// (lit when the pin is low), LED4 sources it.
var activeLow = [Count]bool{true, false, true}

// String returns the channel name, e.g. "led16".
func (id ID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("channel(%d)", int(id))
	}
	return channelNames[id]
}

// Valid reports whether id names an existing channel.
func (id ID) Valid() bool {
	return id >= 0 && id < Count
}

// All returns every channel ID in order.
func All() []ID {
	return []ID{LED2, LED4, LED16}
}

// ActiveLow reports whether the channel is lit by driving its pin low.
func ActiveLow(id ID) bool {
	return activeLow[id]
}

// IdleLevel is the physical level that keeps the channel dark.
func IdleLevel(id ID) bool {
	return activeLow[id]
}

// ActiveLevel is the physical level that lights the channel.
func ActiveLevel(id ID) bool {
	return !activeLow[id]
}

// Driver abstracts the physical output lines.
// Levels are physical: true means the pin is driven high.
// Implementations are not safe for concurrent use; the event loop is the
// only caller.
type Driver interface {
	// SetLevel drives the channel's pin high or low.
	SetLevel(ch ID, high bool) error

	// Level returns the current physical level of the channel's pin.
	Level(ch ID) (bool, error)

	// Close releases the underlying hardware handles.
	Close() error
}

func checkID(ch ID) error {
	if !ch.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownChannel, int(ch))
	}
	return nil
}
