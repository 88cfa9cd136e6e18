package router

import (
	"strings"

	"github.com/smazurov/blinknode/internal/led"
)

// Kind is the action a request target maps to.
type Kind int

const (
	Status Kind = iota
	ToggleChannel
	ToggleBlink
	ToggleRotate
	Asset
)

func (k Kind) String() string {
	switch k {
	case ToggleChannel:
		return "toggle_channel"
	case ToggleBlink:
		return "toggle_blink"
	case ToggleRotate:
		return "toggle_rotate"
	case Asset:
		return "asset"
	default:
		return "status"
	}
}

// Command is a parsed request target.
type Command struct {
	Kind    Kind
	Channel led.ID // set for ToggleChannel
	Path    string // set for Asset, relative to the assets root
}

// Label names the command for logs and metrics.
func (c Command) Label() string {
	if c.Kind == ToggleChannel {
		return "toggle_" + c.Channel.String()
	}
	return c.Kind.String()
}

// Targets are matched as case-sensitive prefixes, in this order. The
// TOOGLE spelling is what deployed pages link to.
var prefixes = []struct {
	prefix string
	cmd    Command
}{
	{"TOOGLE_LED2", Command{Kind: ToggleChannel, Channel: led.LED2}},
	{"TOOGLE_LED4", Command{Kind: ToggleChannel, Channel: led.LED4}},
	{"TOOGLE_LED16", Command{Kind: ToggleChannel, Channel: led.LED16}},
	{"BLINK", Command{Kind: ToggleBlink}},
	{"ROTATE", Command{Kind: ToggleRotate}},
}

// Parse maps a request target to a Command. Anything unrecognised is a
// Status request.
func Parse(target string) Command {
	what := strings.TrimPrefix(target, "/")

	for _, p := range prefixes {
		if strings.HasPrefix(what, p.prefix) {
			return p.cmd
		}
	}

	if strings.HasSuffix(what, "css") || strings.HasSuffix(what, "ico") {
		return Command{Kind: Asset, Path: what}
	}
	return Command{Kind: Status}
}

// Mutates reports whether applying the command changes engine state.
func (c Command) Mutates() bool {
	switch c.Kind {
	case ToggleChannel, ToggleBlink, ToggleRotate:
		return true
	default:
		return false
	}
}
