package logging

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
)

// SyslogIdentifier tags every journal entry, for journalctl -t.
const SyslogIdentifier = "blinknode"

// journalEnabled reports whether journald is listening.
var journalEnabled = journal.Enabled

// journalHandler writes records to journald. Attributes become
// upper-case journal fields, so MODULE and CONN_ID are queryable.
type journalHandler struct {
	level  slog.Leveler
	prefix string // open groups, underscore separated, trailing underscore included
	fields map[string]string
}

func newJournalHandler(level slog.Leveler) *journalHandler {
	return &journalHandler{level: level}
}

func (h *journalHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *journalHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]string, len(h.fields)+r.NumAttrs()+1)
	for k, v := range h.fields {
		fields[k] = v
	}
	fields["SYSLOG_IDENTIFIER"] = SyslogIdentifier
	r.Attrs(func(a slog.Attr) bool {
		putField(fields, h.prefix, a)
		return true
	})
	return journal.Send(r.Message, priority(r.Level), fields)
}

func (h *journalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.fields = make(map[string]string, len(h.fields)+len(attrs))
	for k, v := range h.fields {
		next.fields[k] = v
	}
	for _, a := range attrs {
		putField(next.fields, h.prefix, a)
	}
	return &next
}

func (h *journalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "_"
	return &next
}

func priority(l slog.Level) journal.Priority {
	switch {
	case l >= slog.LevelError:
		return journal.PriErr
	case l >= slog.LevelWarn:
		return journal.PriWarning
	case l >= slog.LevelInfo:
		return journal.PriInfo
	}
	return journal.PriDebug
}

// putField stores a as a journal field, flattening groups with
// underscores.
func putField(dst map[string]string, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner = prefix + a.Key + "_"
		}
		for _, ga := range v.Group() {
			putField(dst, inner, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}

	key := fieldName(prefix + a.Key)
	switch v.Kind() {
	case slog.KindString:
		dst[key] = v.String()
	case slog.KindInt64:
		dst[key] = strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		dst[key] = strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		dst[key] = strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindBool:
		dst[key] = strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		dst[key] = v.Duration().String()
	case slog.KindTime:
		dst[key] = v.Time().Format(time.RFC3339Nano)
	default:
		dst[key] = v.String()
	}
}

// fieldName maps an attribute key to a valid journal field name:
// upper case letters, digits and underscores, not starting with one.
func fieldName(key string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, key)
	name = strings.TrimLeft(name, "_")
	if name == "" {
		return "FIELD"
	}
	return name
}
