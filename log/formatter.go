package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// Format selects how a Logger renders records.
type Format int

const (
	// FormatJSON writes one JSON object per line via slog.JSONHandler.
	FormatJSON Format = iota
	// FormatText writes plain "[time] LEVEL msg k=v" lines.
	FormatText
	// FormatColor is FormatText with ANSI-colored levels.
	FormatColor
	// FormatAuto picks FormatColor on a terminal and FormatJSON otherwise.
	FormatAuto
)

// String returns the lowercase name accepted by ParseFormat.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	case FormatColor:
		return "color"
	case FormatAuto:
		return "auto"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat parses a format name. The match is case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	case "color", "colour":
		return FormatColor, nil
	case "auto", "":
		return FormatAuto, nil
	default:
		return FormatJSON, fmt.Errorf("log: unknown format %q", s)
	}
}

// ResolveFormat replaces FormatAuto with a concrete format for w.
func ResolveFormat(f Format, w io.Writer) Format {
	if f != FormatAuto {
		return f
	}
	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return FormatColor
	}
	return FormatJSON
}

// LevelFromString parses a level name. The match is case-insensitive.
// Unrecognised strings return slog.LevelInfo.
func LevelFromString(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	case "SILENT", "OFF":
		return LevelSilent
	default:
		return slog.LevelInfo
	}
}

// Entry holds all data for a single log event. Attribute keys inside groups
// are qualified with the group names, joined by dots.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   []slog.Attr
}

// Formatter renders an Entry into a single line, without the newline.
type Formatter interface {
	Format(e Entry) string
}

// ---------------------------------------------------------------------------
// TextFormatter
// ---------------------------------------------------------------------------

// TextFormatter renders log entries as plain text in the format:
//
//	[2024-01-01 12:00:00] INFO  message key=value
type TextFormatter struct {
	// TimeFormat controls the timestamp layout. Defaults to
	// "2006-01-02 15:04:05" when empty.
	TimeFormat string
}

// Format produces a plain-text line for the given entry.
func (f *TextFormatter) Format(e Entry) string {
	var b strings.Builder
	writeHeader(&b, e, f.TimeFormat, "", "")
	writeAttrs(&b, e.Attrs)
	return b.String()
}

// ---------------------------------------------------------------------------
// ColorFormatter
// ---------------------------------------------------------------------------

// ANSI color escape codes used by ColorFormatter.
const (
	ansiReset  = "\033[0m"
	ansiGray   = "\033[37m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
)

// ColorFormatter renders log entries as ANSI-colored text:
//
//	DEBUG -> gray
//	INFO  -> green
//	WARN  -> yellow
//	ERROR -> red
type ColorFormatter struct {
	// TimeFormat controls the timestamp layout. Defaults to
	// "2006-01-02 15:04:05" when empty.
	TimeFormat string
}

func colorForLevel(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return ansiGray
	case level < slog.LevelWarn:
		return ansiGreen
	case level < slog.LevelError:
		return ansiYellow
	default:
		return ansiRed
	}
}

// Format produces a colored text line for the given entry.
func (f *ColorFormatter) Format(e Entry) string {
	var b strings.Builder
	writeHeader(&b, e, f.TimeFormat, colorForLevel(e.Level), ansiReset)
	writeAttrs(&b, e.Attrs)
	return b.String()
}

func writeHeader(b *strings.Builder, e Entry, tf, pre, post string) {
	if tf == "" {
		tf = "2006-01-02 15:04:05"
	}
	b.WriteString("[")
	b.WriteString(e.Time.Format(tf))
	b.WriteString("] ")
	b.WriteString(pre)
	// Pad to 5 chars so messages line up (DEBUG/INFO /WARN /ERROR).
	fmt.Fprintf(b, "%-5s", e.Level.String())
	b.WriteString(post)
	b.WriteString(" ")
	b.WriteString(e.Message)
}

func writeAttrs(b *strings.Builder, attrs []slog.Attr) {
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString("=")
		b.WriteString(a.Value.String())
	}
}

// ---------------------------------------------------------------------------
// FormatHandler
// ---------------------------------------------------------------------------

// FormatHandler is a slog.Handler that renders records with a Formatter, one
// line per record. Handlers derived through WithAttrs and WithGroup share
// the writer and its lock.
type FormatHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	f      Formatter
	attrs  []slog.Attr
	prefix string
}

// NewFormatHandler returns a handler writing records at or above level to w.
func NewFormatHandler(w io.Writer, level slog.Leveler, f Formatter) *FormatHandler {
	return &FormatHandler{mu: new(sync.Mutex), w: w, level: level, f: f}
}

// Enabled reports whether records at level are written.
func (h *FormatHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats r and writes it as a single line.
func (h *FormatHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = flatten(attrs, h.prefix, a)
		return true
	})
	line := h.f.Format(Entry{Time: r.Time, Level: r.Level, Message: r.Message, Attrs: attrs})

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line+"\n")
	return err
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *FormatHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		c.attrs = flatten(c.attrs, h.prefix, a)
	}
	return &c
}

// WithGroup returns a handler that qualifies later attribute keys with name.
func (h *FormatHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}

// flatten appends a to dst, expanding groups into dotted keys.
func flatten(dst []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, g := range v.Group() {
			dst = flatten(dst, p, g)
		}
		return dst
	}
	if a.Key == "" {
		return dst
	}
	return append(dst, slog.Attr{Key: prefix + a.Key, Value: v})
}
