// The code in this package is derivative of https://gitlab.com/greyxor/slogor.
// Mount of this source code is governed by a MIT license that can be found
// at https://gitlab.com/greyxor/slogor/-/blob/main/LICENSE?ref_type=heads.

package slogpretty

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tigerwill90/bestmatch/internal/ansi"
)

const (
	maxBufferSize     = 16 << 10 // 16384
	initialBufferSize = 1024
	noMatch           = "NO MATCH"
)

var _ slog.Handler = (*Handler)(nil)

var logBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, initialBufferSize)
		return &b
	},
}

var timeFormat = fmt.Sprintf("%s %s", time.DateOnly, time.TimeOnly)

// New returns a Handler writing records below the error level to wo and the others to we.
// Writes are serialized per writer.
func New(wo, we io.Writer, lvl slog.Leveler, color bool) *Handler {
	return &Handler{
		We:    &lockedWriter{w: we},
		Wo:    &lockedWriter{w: wo},
		Lvl:   lvl,
		Goa:   make([]GroupOrAttrs, 0),
		Color: color,
	}
}

func freeBuf(b *[]byte) {
	if cap(*b) <= maxBufferSize {
		*b = (*b)[:0]
		logBufPool.Put(b)
	}
}

type GroupOrAttrs struct {
	attr  slog.Attr
	group string
}

type Handler struct {
	We    io.Writer
	Wo    io.Writer
	Lvl   slog.Leveler
	Goa   []GroupOrAttrs
	Color bool
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.Lvl.Level()
}

func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	bufp := logBufPool.Get().(*[]byte)
	buf := *bufp

	defer func() {
		*bufp = buf
		freeBuf(bufp)
	}()

	buf = append(buf, "[MATCH] "...)

	if !record.Time.IsZero() {
		buf = h.appendStyle(buf, ansi.Faint)
		buf = append(buf, record.Time.Format(timeFormat)...)
		buf = h.appendStyle(buf, ansi.NormalIntensity)
		buf = append(buf, " "...)
	}

	// Write level with appropriate formatting and color.
	// Also append right padding depending on the log level.
	buf = append(buf, "| "...)
	switch {
	case record.Level >= slog.LevelError:
		buf = h.appendStyle(buf, ansi.FgRed)
		buf = append(buf, record.Level.String()...)
	case record.Level >= slog.LevelWarn:
		buf = h.appendStyle(buf, ansi.FgYellow)
		buf = append(buf, record.Level.String()...)
		buf = append(buf, " "...)
	case record.Level >= slog.LevelInfo:
		buf = h.appendStyle(buf, ansi.FgGreen)
		buf = append(buf, record.Level.String()...)
		buf = append(buf, " "...)
	default:
		buf = h.appendStyle(buf, ansi.FgMagenta)
		buf = append(buf, record.Level.String()...)
	}

	buf = h.appendStyle(buf, ansi.Reset)
	buf = append(buf, " | "...)
	buf = append(buf, record.Message...)
	buf = append(buf, " | "...)

	lastGroup := ""
	for _, goa := range h.Goa {
		switch {
		case goa.group != "":
			lastGroup += goa.group + "."
		default:
			attr := goa.attr
			if lastGroup != "" {
				attr.Key = lastGroup + attr.Key
			}

			buf = h.appendAttr(buf, attr)
		}
	}

	// If there are additional attributes, append them to the log record.
	if record.NumAttrs() > 0 {
		record.Attrs(func(attr slog.Attr) bool {
			if lastGroup != "" {
				attr.Key = lastGroup + attr.Key
			}
			buf = h.appendAttr(buf, attr)

			return true
		})
	}

	// Replace the latest space by an EOL.
	buf[len(buf)-1] = '\n'

	if record.Level >= slog.LevelError {
		if _, err := h.We.Write(buf); err != nil {
			return fmt.Errorf("failed to write buffer: %w", err)
		}
	} else {
		if _, err := h.Wo.Write(buf); err != nil {
			return fmt.Errorf("failed to write buffer: %w", err)
		}
	}

	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]GroupOrAttrs, len(attrs))
	for i, attr := range attrs {
		newAttrs[i] = GroupOrAttrs{attr: attr}
	}

	return &Handler{
		We:    h.We,
		Wo:    h.Wo,
		Lvl:   h.Lvl,
		Goa:   append(h.Goa, newAttrs...),
		Color: h.Color,
	}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		We:    h.We,
		Wo:    h.Wo,
		Lvl:   h.Lvl,
		Goa:   append(h.Goa, GroupOrAttrs{group: name}),
		Color: h.Color,
	}
}

func (h *Handler) appendStyle(buf []byte, code string) []byte {
	if !h.Color {
		return buf
	}
	return append(buf, code...)
}

// appendAttr appends the attribute to the buffer.
func (h *Handler) appendAttr(buf []byte, attr slog.Attr) []byte {
	// Resolve the Attr's value before doing anything else.
	attr.Value = attr.Value.Resolve()

	// Ignore empty Attrs.
	if attr.Equal(slog.Attr{}) {
		return buf
	}

	buf = h.appendStyle(buf, ansi.Faint)
	buf = h.appendStyle(buf, ansi.Bold)

	buf = append(buf, attr.Key...)
	buf = append(buf, "="...)
	buf = h.appendStyle(buf, ansi.NormalIntensity)

	switch attr.Key {
	case "pattern":
		if attr.Value.String() == noMatch {
			buf = h.appendStyle(buf, ansi.FgRed)
		} else {
			buf = h.appendStyle(buf, ansi.FgGreen)
		}
	case "path":
		buf = h.appendStyle(buf, ansi.FgYellow)
	case "latency", "elapsed":
		buf = h.appendStyle(buf, latencyColor(attr.Value.Duration()))
	case "error":
		buf = h.appendStyle(buf, ansi.FgRed)
	default:
		buf = h.appendStyle(buf, ansi.FgCyan)
	}

	buf = append(buf, attr.Value.String()...)
	buf = h.appendStyle(buf, ansi.Reset)
	buf = append(buf, " "...)

	return buf
}

type lockedWriter struct {
	w io.Writer
	sync.Mutex
}

func (w *lockedWriter) Write(p []byte) (n int, err error) {
	w.Lock()
	n, err = w.w.Write(p)
	w.Unlock()
	return
}

func latencyColor(d time.Duration) string {
	if d < 100*time.Millisecond {
		return ansi.FgGreen
	}
	if d < 500*time.Millisecond {
		return ansi.FgYellow
	}
	return ansi.FgRed
}
