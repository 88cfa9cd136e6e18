package logging

import (
	"log/slog"
	"testing"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
)

func TestPutField(t *testing.T) {
	fields := map[string]string{}
	putField(fields, "", slog.String("conn_id", "abc"))
	putField(fields, "", slog.Duration("duration", 1500*time.Millisecond))
	putField(fields, "led_", slog.Bool("enabled", true))
	putField(fields, "", slog.Group("driver", slog.Int("line", 16)))
	putField(fields, "", slog.String("tick.index", "2"))
	putField(fields, "", slog.Float64("ratio", 0.25))

	want := map[string]string{
		"CONN_ID":     "abc",
		"DURATION":    "1.5s",
		"LED_ENABLED": "true",
		"DRIVER_LINE": "16",
		"TICK_INDEX":  "2",
		"RATIO":       "0.25",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%s] = %q, want %q (all: %v)", k, fields[k], v, fields)
		}
	}
}

func TestFieldName(t *testing.T) {
	tests := map[string]string{
		"module":   "MODULE",
		"conn-id":  "CONN_ID",
		"_private": "PRIVATE",
		"__":       "FIELD",
	}
	for in, want := range tests {
		if got := fieldName(in); got != want {
			t.Errorf("fieldName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPriority(t *testing.T) {
	tests := map[slog.Level]journal.Priority{
		slog.LevelDebug: journal.PriDebug,
		slog.LevelInfo:  journal.PriInfo,
		slog.LevelWarn:  journal.PriWarning,
		slog.LevelError: journal.PriErr,
	}
	for level, want := range tests {
		if got := priority(level); got != want {
			t.Errorf("priority(%s) = %d, want %d", level, got, want)
		}
	}
}
