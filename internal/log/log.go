package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
)

// LevelAudit sits between info and warn so audit lines survive LOG_LEVEL=info
// and can be filtered on their own.
const LevelAudit = slog.Level(2)

var (
	logger atomic.Pointer[slog.Logger]
	output atomic.Pointer[sink]
)

type sink struct{ w io.Writer }

func init() { Setup(os.Stdout, "info") }

// Setup replaces the process logger. Lines are JSON objects keyed ts/level/msg.
func Setup(w io.Writer, level string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: replaceAttr,
	})
	l := slog.New(h)
	output.Store(&sink{w: w})
	logger.Store(l)
	slog.SetDefault(l)
	return l
}

// SetOutput keeps the level at debug; used by tests that capture lines.
func SetOutput(w io.Writer) *slog.Logger { return Setup(w, "debug") }

func Logger() *slog.Logger { return logger.Load() }

// Writer forwards to the output most recently passed to Setup, for middleware
// that captures its writer once at construction.
func Writer() io.Writer { return forward{} }

type forward struct{}

func (forward) Write(p []byte) (int, error) { return output.Load().w.Write(p) }

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		lvl, _ := a.Value.Any().(slog.Level)
		switch lvl {
		case LevelAudit:
			a.Value = slog.StringValue("audit")
		default:
			a.Value = slog.StringValue(strings.ToLower(lvl.String()))
		}
	}
	return a
}

func write(level slog.Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	l := Logger()
	ctx := context.Background()
	if !l.Enabled(ctx, level) {
		return
	}
	attrs := make([]slog.Attr, 0, 8)
	attrs = append(attrs, slog.String("action", action))
	if c != nil {
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			attrs = append(attrs, slog.String("req_id", rid))
		}
		attrs = append(attrs,
			slog.String("ip", c.IP()),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
		)
		if st := c.Response().StatusCode(); st != 0 {
			attrs = append(attrs, slog.Int("status", st))
		}
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	if len(fields) > 0 {
		attrs = append(attrs, slog.Any("fields", fields))
	}
	l.LogAttrs(ctx, level, action, attrs...)
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(slog.LevelInfo, c, action, nil, fields)
}
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(LevelAudit, c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(slog.LevelWarn, c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(slog.LevelError, c, action, err, fields)
}
