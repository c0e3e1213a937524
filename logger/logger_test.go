package logger_test

import (
	"context"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rise-and-shine/eventhub/logger"
	"github.com/rise-and-shine/eventhub/meta"
)

func newObserved() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.FromZap(zap.New(core)), logs
}

func TestWarnxAddsErrorFields(t *testing.T) {
	log, logs := newObserved()

	log.Warnx(errx.New(
		"file missing",
		errx.WithCode("ASSET_READ_FAILED"),
		errx.WithType(errx.T_NotFound),
		errx.WithDetails(errx.D{"path": "public/compressed/a.jpg"}),
	))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Contains(t, entry.Message, "file missing")

	fields := entry.ContextMap()
	assert.Equal(t, "ASSET_READ_FAILED", fields["error_code"])
	assert.Equal(t, errx.T_NotFound.String(), fields["error_type"])
	assert.Contains(t, fields, "error_details")
	assert.NotContains(t, fields, "error_fields")
}

func TestErrorxWithPlainError(t *testing.T) {
	log, logs := newObserved()

	log.Errorx(context.Canceled)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
	assert.Equal(t, context.Canceled.Error(), logs.All()[0].Message)
}

func TestWithContextAddsMeta(t *testing.T) {
	log, logs := newObserved()
	ctx := meta.InjectMetaToContext(t.Context(), map[meta.ContextKey]string{meta.TraceID: "trace-1", meta.CompanyID: "company-1"})

	log.Named("api").WithContext(ctx).Info("hello")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "api", entry.LoggerName)
	assert.Equal(t, "trace-1", entry.ContextMap()[string(meta.TraceID)])
	assert.Equal(t, "company-1", entry.ContextMap()[string(meta.CompanyID)])
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     logger.Config
		wantErr bool
	}{
		{name: "pretty", cfg: logger.Config{Level: "info", Encoding: logger.EncodingPretty}},
		{name: "json", cfg: logger.Config{Level: "warn", Encoding: logger.EncodingJSON}},
		{name: "disabled ignores level", cfg: logger.Config{Level: "loud", Disable: true}},
		{name: "bad level", cfg: logger.Config{Level: "loud", Encoding: logger.EncodingJSON}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.New(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}
