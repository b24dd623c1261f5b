package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

type Config struct {
	// Verbosity is the number of -v flags: 0 info, 1 debug, 2+ debug with source.
	Verbosity int
	// Out defaults to stderr.
	Out io.Writer
	// JSON switches from the text handler to the JSON handler.
	JSON bool
}

var (
	mu       sync.RWMutex
	global   = slog.New(slog.NewTextHandler(io.Discard, nil))
	level    = new(slog.LevelVar)
	initedAt time.Time
)

// Level maps a verbosity count onto a slog level.
func Level(verbosity int) slog.Level {
	if verbosity > 0 {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func Setup(cfg Config) (func() error, error) {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	lv := new(slog.LevelVar)
	lv.Set(Level(cfg.Verbosity))

	opts := &slog.HandlerOptions{
		Level:     lv,
		AddSource: cfg.Verbosity >= 2,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				t := a.Value.Time().UTC()
				a.Value = slog.StringValue(t.Format(time.RFC3339))
			}
			return a
		},
	}

	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}

	mu.Lock()
	global = slog.New(h)
	level = lv
	initedAt = time.Now().UTC()
	mu.Unlock()

	L().Debug("logger.initialized", "level", lv.Level().String(), "source", opts.AddSource)

	cleanup := func() error {
		setDiscard()
		return nil
	}
	return cleanup, nil
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Enabled reports whether records at lv would be emitted.
func Enabled(lv slog.Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return lv >= level.Level()
}

func InitTime() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return initedAt
}

func setDiscard() {
	mu.Lock()
	defer mu.Unlock()
	global = slog.New(slog.NewTextHandler(io.Discard, nil))
	level = new(slog.LevelVar)
	initedAt = time.Time{}
}
