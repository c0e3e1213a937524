// Package logger provides the structured logger used across the service.
//
// It wraps zap's SugaredLogger behind a small interface, adds helpers for
// logging errx errors with their code, type and trace, and enriches entries
// with request metadata carried in the context.
package logger

import (
	"context"
	"errors"

	"github.com/code19m/errx"
	"go.uber.org/zap"

	"github.com/rise-and-shine/eventhub/meta"
)

// Logger is the logging interface handed to every component.
type Logger interface {
	Debug(msg any)
	Info(msg any)
	Warn(msg any)
	Error(msg any)
	// Fatal logs and then calls os.Exit(1).
	Fatal(msg any)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)

	// Warnx, Errorx and Fatalx log err together with its errx code, type, trace, fields and details.
	Warnx(err error)
	Errorx(err error)
	Fatalx(err error)

	// With returns a child logger adding keysAndValues to every entry.
	With(keysAndValues ...any) Logger
	// WithContext returns a child logger carrying the request metadata of ctx.
	WithContext(ctx context.Context) Logger
	// Named appends name to the logger name, separated by a dot.
	Named(name string) Logger

	Sync() error
}

type zapLogger struct {
	*zap.SugaredLogger
}

// New builds a logger from cfg.
func New(cfg Config) (Logger, error) {
	if cfg.Disable {
		return Nop(), nil
	}

	zapCfg, err := cfg.zapConfig()
	if err != nil {
		return nil, errx.Wrap(err)
	}

	if cfg.Encoding == EncodingPretty {
		return FromZap(newPrettyLogger(zapCfg)), nil
	}

	l, err := zapCfg.Build()
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return FromZap(l), nil
}

// FromZap wraps an existing zap logger.
func FromZap(l *zap.Logger) Logger {
	return &zapLogger{l.Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return FromZap(zap.NewNop())
}

func (l *zapLogger) Warnx(err error) {
	l.errorFields(err).Warn(err.Error())
}

func (l *zapLogger) Errorx(err error) {
	l.errorFields(err).Error(err.Error())
}

func (l *zapLogger) Fatalx(err error) {
	l.errorFields(err).Fatal(err.Error())
}

func (l *zapLogger) errorFields(err error) Logger {
	var e errx.ErrorX
	if !errors.As(err, &e) {
		return l
	}

	kv := []any{"error_code", e.Code(), "error_type", e.Type().String(), "error_trace", e.Trace()}
	if fields := e.Fields(); len(fields) > 0 {
		kv = append(kv, "error_fields", fields)
	}
	if details := e.Details(); len(details) > 0 {
		kv = append(kv, "error_details", details)
	}
	return l.With(kv...)
}

func (l *zapLogger) With(keysAndValues ...any) Logger {
	if len(keysAndValues) == 0 {
		return l
	}
	return &zapLogger{l.SugaredLogger.With(keysAndValues...)}
}

func (l *zapLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}

	md := meta.ExtractMetaFromContext(ctx)
	kv := make([]any, 0, 2*len(md))
	for k, v := range md {
		// zap rejects non-string keys
		kv = append(kv, string(k), v)
	}
	return l.With(kv...)
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{l.SugaredLogger.Named(name)}
}

func (l *zapLogger) Debug(msg any) { l.SugaredLogger.Debug(msg) }

func (l *zapLogger) Info(msg any) { l.SugaredLogger.Info(msg) }

func (l *zapLogger) Warn(msg any) { l.SugaredLogger.Warn(msg) }

func (l *zapLogger) Error(msg any) { l.SugaredLogger.Error(msg) }

func (l *zapLogger) Fatal(msg any) { l.SugaredLogger.Fatal(msg) }
