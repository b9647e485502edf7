package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	purple = "\033[35m"
	cyan   = "\033[36m"
	gray   = "\033[37m"
	white  = "\033[97m"
)

const redacted = "[REDACTED]"

// PrettyHandler writes one colored line per record for local development.
// Attributes whose key names a credential are masked.
type PrettyHandler struct {
	opts   slog.HandlerOptions
	w      io.Writer
	mu     *sync.Mutex
	prefix string
	// preformatted holds attributes added through WithAttrs, already
	// qualified with the group active at the time.
	preformatted []byte
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{opts: *opts, w: w, mu: &sync.Mutex{}}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var line strings.Builder
	fmt.Fprintf(&line, "%s%s%s %s%-5s%s %s%s%s",
		gray, r.Time.Format("15:04:05.000"), reset,
		levelColor(r.Level), r.Level.String(), reset,
		white, r.Message, reset)

	line.Write(h.preformatted)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&line, h.prefix, a)
		return true
	})
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.Write(h.preformatted)
	for _, a := range attrs {
		writeAttr(&b, h.prefix, a)
	}

	clone := *h
	clone.preformatted = []byte(b.String())
	return &clone
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return red
	case level >= slog.LevelWarn:
		return yellow
	case level >= slog.LevelInfo:
		return green
	default:
		return purple
	}
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	value := a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if value.Kind() == slog.KindGroup {
		nested := prefix
		if a.Key != "" {
			nested = prefix + a.Key + "."
		}
		for _, member := range value.Group() {
			writeAttr(b, nested, member)
		}
		return
	}

	key := prefix + a.Key
	if sensitive(a.Key) {
		fmt.Fprintf(b, " %s%s%s=%s", cyan, key, reset, redacted)
		return
	}

	switch v := value.Any().(type) {
	case error:
		fmt.Fprintf(b, " %s%s%s=%s%v%s", cyan, key, reset, red, v, reset)
	case time.Time:
		fmt.Fprintf(b, " %s%s%s=%s", cyan, key, reset, v.Format(time.RFC3339))
	default:
		if a.Key == "status" {
			if code, ok := v.(int64); ok && code >= 500 {
				fmt.Fprintf(b, " %s%s%s=%s%d%s", cyan, key, reset, red, code, reset)
				return
			}
		}
		fmt.Fprintf(b, " %s%s%s=%v", cyan, key, reset, v)
	}
}

// sensitive reports keys that carry passwords or bearer material.
func sensitive(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "password") || strings.Contains(k, "token") || strings.Contains(k, "secret")
}
