package logger

import (
	"context"
	"sync"
	"sync/atomic"
)

type holder struct {
	Logger
}

//nolint:gochecknoglobals // the global logger is a process-wide singleton
var (
	global  atomic.Pointer[holder]
	setOnce sync.Once
	initMu  sync.Mutex
)

// SetGlobal configures the global logger. It must be called once, at startup,
// before the first log line; a second call panics.
func SetGlobal(cfg Config) {
	called := false
	setOnce.Do(func() {
		l, err := New(cfg)
		if err != nil {
			panic("[logger]: failed to initialize global logger: " + err.Error())
		}
		global.Store(&holder{l})
		called = true
	})
	if !called {
		panic("[logger]: SetGlobal can only be called once")
	}
}

// Global returns the global logger, creating a pretty debug logger on first use if none was set.
func Global() Logger {
	if h := global.Load(); h != nil {
		return h.Logger
	}

	initMu.Lock()
	defer initMu.Unlock()

	if h := global.Load(); h != nil {
		return h.Logger
	}
	l, err := New(Config{Level: levelDebug, Encoding: EncodingPretty})
	if err != nil {
		panic("[logger]: failed to initialize default logger: " + err.Error())
	}
	global.Store(&holder{l})
	return l
}

// Debug logs a message at debug level using the global logger.
func Debug(msg any) { Global().Debug(msg) }

// Info logs a message at info level using the global logger.
func Info(msg any) { Global().Info(msg) }

// Warn logs a message at warn level using the global logger.
func Warn(msg any) { Global().Warn(msg) }

// Error logs a message at error level using the global logger.
func Error(msg any) { Global().Error(msg) }

// Fatal logs a message at fatal level using the global logger and then calls os.Exit(1).
func Fatal(msg any) { Global().Fatal(msg) }

// Infof logs a formatted message at info level using the global logger.
func Infof(format string, args ...any) { Global().Infof(format, args...) }

// Warnx logs an errx.ErrorX at warn level using the global logger.
func Warnx(err error) { Global().Warnx(err) }

// Errorx logs an errx.ErrorX at error level using the global logger.
func Errorx(err error) { Global().Errorx(err) }

// Fatalx logs an errx.ErrorX at fatal level using the global logger and then calls os.Exit(1).
func Fatalx(err error) { Global().Fatalx(err) }

// With creates a child of the global logger with the given key-value pairs.
func With(keysAndValues ...any) Logger { return Global().With(keysAndValues...) }

// WithContext creates a child of the global logger enriched with request metadata.
func WithContext(ctx context.Context) Logger { return Global().WithContext(ctx) }

// Named adds a sub-scope to the global logger's name.
func Named(name string) Logger { return Global().Named(name) }

// Sync flushes any buffered log entries from the global logger.
func Sync() error { return Global().Sync() }
