package logger

import (
	"github.com/code19m/errx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Entry keys shared by both encodings.
const (
	messageKey = "msg"
	levelKey   = "level"
	nameKey    = "logger"
	timeKey    = "time"
)

const (
	EncodingJSON   = "json"
	EncodingPretty = "pretty"

	levelDebug = "debug"
)

// Config selects the level and output format of the logger.
type Config struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error" default:"debug"`

	// Encoding is "pretty" for coloured, indented development output or "json" for one JSON object per line.
	Encoding string `yaml:"encoding" validate:"oneof=json pretty" default:"pretty"`

	// Disable discards every entry.
	Disable bool `yaml:"disable" default:"false"`
}

func (c Config) zapConfig() (*zap.Config, error) {
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"level": c.Level}))
	}

	// pretty post-processes the JSON encoder output
	return &zap.Config{
		Level:            level,
		Encoding:         EncodingJSON,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     messageKey,
			LevelKey:       levelKey,
			NameKey:        nameKey,
			TimeKey:        timeKey,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeName:     zapcore.FullNameEncoder,
		},
	}, nil
}
