package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

const ginKey = "logger"

var (
	once sync.Once
	base *slog.Logger
)

type Options struct {
	// App names the process; child loggers add their own component.
	App      string
	FilePath string
	Level    string
	// Quiet keeps stdout free, e.g. while the TUI owns the terminal.
	Quiet bool
}

// Init configures the global logger exactly once.
func Init(o Options) *slog.Logger {
	once.Do(func() {
		var writers []io.Writer
		if !o.Quiet {
			writers = append(writers, os.Stdout)
		}
		if o.FilePath != "" {
			_ = os.MkdirAll(filepath.Dir(o.FilePath), 0o755)
			writers = append(writers, &lumberjack.Logger{
				Filename:   o.FilePath,
				MaxSize:    20, // MB
				MaxBackups: 3,
				MaxAge:     7, // days
			})
		}
		if len(writers) == 0 {
			writers = append(writers, io.Discard)
		}
		base = newLogger(io.MultiWriter(writers...), o)
	})
	return base
}

func newLogger(w io.Writer, o Options) *slog.Logger {
	app := o.App
	if app == "" {
		app = "storefront"
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(o.Level)})
	return slog.New(h).With("app", app)
}

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

// Base returns the global logger, falling back to stdout at info level.
func Base() *slog.Logger {
	if base == nil {
		return Init(Options{})
	}
	return base
}

// New returns a child logger sharing the global handler.
func New(component string) *slog.Logger {
	return Base().With("component", component)
}

// Discard is a logger for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func WithCtx(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func FromCtx(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return Base()
}

// With stores a request-scoped logger in gin.Context.
func With(c *gin.Context, l *slog.Logger) {
	c.Set(ginKey, l)
}

func From(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(ginKey); ok {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return Base()
}
