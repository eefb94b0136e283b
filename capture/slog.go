package capture

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/maddsua/consolelog"
)

//	Handler returns a slog handler that queues records at the captured levels and then passes them on to next
func (this *Engine) Handler(next slog.Handler) slog.Handler {
	return &slogHandler{engine: this, next: next}
}

type slogHandler struct {
	engine *Engine
	next   slog.Handler
	attrs  []string
	group  string
}

func (this *slogHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return this.next.Enabled(ctx, lvl)
}

func (this *slogHandler) Handle(ctx context.Context, rec slog.Record) error {

	lvl := levelFromSlog(rec.Level)
	if this.engine.captures(lvl) {

		parts := append([]string{rec.Message}, this.attrs...)
		rec.Attrs(func(attr slog.Attr) bool {
			parts = append(parts, formatAttr(this.group, attr))
			return true
		})

		this.engine.enqueue(consolelog.LogEntry{
			Level:  lvl,
			Text:   strings.Join(parts, " "),
			Source: sourceFromPC(rec.PC),
			Time:   consolelog.NewUnixMilli(this.recordTime(rec)),
		})
	}

	return this.next.Handle(ctx, rec)
}

func (this *slogHandler) recordTime(rec slog.Record) time.Time {
	if rec.Time.IsZero() {
		return this.engine.clock.Now()
	}
	return rec.Time
}

func (this *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {

	formatted := append([]string{}, this.attrs...)
	for _, attr := range attrs {
		formatted = append(formatted, formatAttr(this.group, attr))
	}

	return &slogHandler{
		engine: this.engine,
		next:   this.next.WithAttrs(attrs),
		attrs:  formatted,
		group:  this.group,
	}
}

func (this *slogHandler) WithGroup(name string) slog.Handler {

	if name == "" {
		return this
	}

	group := name
	if this.group != "" {
		group = this.group + "." + name
	}

	return &slogHandler{
		engine: this.engine,
		next:   this.next.WithGroup(name),
		attrs:  this.attrs,
		group:  group,
	}
}

func formatAttr(group string, attr slog.Attr) string {

	key := attr.Key
	if group != "" {
		key = group + "." + key
	}

	return key + "=" + attr.Value.Resolve().String()
}

func levelFromSlog(lvl slog.Level) consolelog.Level {
	switch {
	case lvl >= slog.LevelError:
		return consolelog.LevelError
	case lvl >= slog.LevelWarn:
		return consolelog.LevelWarn
	case lvl >= slog.LevelInfo:
		return consolelog.LevelInfo
	default:
		return consolelog.LevelDebug
	}
}

func (this *Engine) captures(lvl consolelog.Level) bool {
	for _, val := range this.levels {
		if val == lvl {
			return true
		}
	}
	return false
}
