package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // static palettes shared across encoder instances
var (
	levelColors = map[zapcore.Level]*color.Color{
		zapcore.DebugLevel:  color.New(color.FgBlue, color.Bold),
		zapcore.InfoLevel:   color.New(color.FgGreen, color.Bold),
		zapcore.WarnLevel:   color.New(color.FgYellow, color.Bold),
		zapcore.ErrorLevel:  color.New(color.FgRed, color.Bold),
		zapcore.DPanicLevel: color.New(color.FgHiRed, color.Bold),
		zapcore.PanicLevel:  color.New(color.FgHiRed, color.Bold),
		zapcore.FatalLevel:  color.New(color.FgMagenta, color.Bold),
	}

	timeColor   = color.New(color.Faint)
	nameColor   = color.New(color.FgCyan)
	keyColor    = color.New(color.FgHiCyan)
	valueColor  = color.New(color.Faint)
	warnColor   = color.New(color.FgYellow)
	errorColor  = color.New(color.FgRed)
	normalColor = color.New(color.Reset)
)

// prettyEncoder renders zap's JSON output as a coloured header line followed by indented fields.
type prettyEncoder struct {
	zapcore.Encoder
}

func (e *prettyEncoder) Clone() zapcore.Encoder {
	return &prettyEncoder{Encoder: e.Encoder.Clone()}
}

func newPrettyLogger(cfg *zap.Config) *zap.Logger {
	enc := &prettyEncoder{Encoder: zapcore.NewJSONEncoder(cfg.EncoderConfig)}
	core := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), cfg.Level)
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(os.Stderr)))
}

func (e *prettyEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}

	raw := bytes.TrimSpace(append([]byte(nil), buf.Bytes()...))
	buf.Reset()

	payload := orderedmap.New[string, any]()
	if err = payload.UnmarshalJSON(raw); err != nil {
		_, _ = buf.Write(raw)
		buf.AppendByte('\n')
		return buf, nil //nolint:nilerr // fall back to the raw JSON line
	}

	buf.AppendString(header(entry))
	buf.AppendString(body(payload, entry.Level))
	return buf, nil
}

func header(entry zapcore.Entry) string {
	ts := entry.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	lvl, ok := levelColors[entry.Level]
	if !ok {
		lvl = normalColor
	}

	var b strings.Builder
	b.WriteString(timeColor.Sprint("[" + ts.Format(time.DateTime) + "]"))
	b.WriteByte(' ')
	b.WriteString(lvl.Sprint(strings.ToUpper(entry.Level.String())))
	if entry.LoggerName != "" {
		b.WriteByte(' ')
		b.WriteString(nameColor.Sprint(entry.LoggerName))
	}
	if entry.Message != "" {
		b.WriteByte(' ')
		b.WriteString(messageColor(entry.Level).Sprint(entry.Message))
	}
	b.WriteByte('\n')
	return b.String()
}

func body(payload *orderedmap.OrderedMap[string, any], level zapcore.Level) string {
	for _, k := range []string{timeKey, levelKey, messageKey, nameKey} {
		payload.Delete(k)
	}
	if payload.Len() == 0 {
		return ""
	}

	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return valueColor.Sprint(err.Error()) + "\n"
	}

	var b strings.Builder
	for _, line := range strings.Split(string(pretty), "\n") {
		b.WriteString(styleLine(line, level))
		b.WriteByte('\n')
	}
	return b.String()
}

func styleLine(line string, level zapcore.Level) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	key, rest, found := strings.Cut(trimmed, ":")
	if !found || !strings.HasPrefix(key, `"`) {
		return indent + valueColor.Sprint(trimmed)
	}

	kc := keyColor
	if level >= zapcore.WarnLevel {
		kc = messageColor(level)
	}
	return indent + kc.Sprint(key) + ":" + valueColor.Sprint(rest)
}

func messageColor(level zapcore.Level) *color.Color {
	switch {
	case level >= zapcore.ErrorLevel:
		return errorColor
	case level == zapcore.WarnLevel:
		return warnColor
	default:
		return normalColor
	}
}
