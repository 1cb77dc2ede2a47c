package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
)

// journalIdentifier is the SYSLOG_IDENTIFIER for every entry, so
// `journalctl -t blinkid` selects the whole daemon.
const journalIdentifier = "blinkid"

// JournalHandler writes records to the systemd journal. Attributes become
// upper-case journal fields; groups are joined with underscores, so
// logger.With("module", "gesture") is queryable as MODULE=gesture.
type JournalHandler struct {
	level  slog.Leveler
	prefix string
	fields map[string]string
}

// NewJournalHandler returns a handler gated by level. The level is read on
// every record so a *slog.LevelVar can be changed at runtime.
func NewJournalHandler(level slog.Leveler) *JournalHandler {
	return &JournalHandler{level: level, fields: map[string]string{}}
}

func (h *JournalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *JournalHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]string, len(h.fields)+r.NumAttrs()+1)
	for k, v := range h.fields {
		fields[k] = v
	}
	fields["SYSLOG_IDENTIFIER"] = journalIdentifier
	r.Attrs(func(a slog.Attr) bool {
		flattenAttr(fields, h.prefix, a)
		return true
	})

	if err := journal.Send(r.Message, journalPriority(r.Level), fields); err != nil {
		fmt.Fprintf(os.Stderr, "journal: %v: %s\n", err, r.Message)
		return err
	}
	return nil
}

func (h *JournalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		flattenAttr(next.fields, h.prefix, a)
	}
	return next
}

func (h *JournalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.prefix = h.prefix + strings.ToUpper(name) + "_"
	return next
}

func (h *JournalHandler) clone() *JournalHandler {
	fields := make(map[string]string, len(h.fields))
	for k, v := range h.fields {
		fields[k] = v
	}
	return &JournalHandler{level: h.level, prefix: h.prefix, fields: fields}
}

func journalPriority(level slog.Level) journal.Priority {
	switch {
	case level >= slog.LevelError:
		return journal.PriErr
	case level >= slog.LevelWarn:
		return journal.PriWarning
	case level >= slog.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

// flattenAttr writes a into fields under prefix, descending into groups.
func flattenAttr(fields map[string]string, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := prefix + strings.ToUpper(a.Key)

	if a.Value.Kind() == slog.KindGroup {
		inner := key + "_"
		if a.Key == "" {
			inner = prefix
		}
		for _, child := range a.Value.Group() {
			flattenAttr(fields, inner, child)
		}
		return
	}
	fields[key] = journalValue(a.Value)
}

func journalValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	default:
		return v.String()
	}
}

// IsJournalAvailable reports whether journald is listening.
func IsJournalAvailable() bool {
	return journal.Enabled()
}
