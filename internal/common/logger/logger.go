package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger пишет структурированные JSON-записи вида
// {timestamp, level, service, action, message, hostname, request_id, ...fields}.
type Logger struct {
	service string
	base    *zap.Logger // без service, из него строятся Named
	z       *zap.Logger
}

func New(service string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true

	z, err := cfg.Build()
	if err != nil {
		z = zap.NewNop()
	}
	return build(service, z.With(zap.String("hostname", hostname())))
}

func build(service string, base *zap.Logger) *Logger {
	return &Logger{service: service, base: base, z: base.With(zap.String("service", service))}
}

// NewNop - логгер для тестов, ничего не пишет.
func NewNop() *Logger { return build("nop", zap.NewNop()) }

// Named возвращает логгер того же процесса для другого сервиса.
func (l *Logger) Named(service string) *Logger {
	if l == nil || l.base == nil {
		return NewNop()
	}
	return build(service, l.base)
}

func (l *Logger) log(level zapcore.Level, action string, fields map[string]any, err error) {
	if l == nil || l.z == nil {
		return
	}
	zf := make([]zap.Field, 0, len(fields)+3)
	zf = append(zf, zap.String("action", action))
	if _, ok := fields["request_id"]; !ok {
		zf = append(zf, zap.String("request_id", ""))
	}
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	if err != nil {
		zf = append(zf, zap.Dict("error", zap.String("msg", err.Error()), zap.String("type", errType(err))))
	}
	if ce := l.z.Check(level, action); ce != nil {
		ce.Write(zf...)
	}
}

func (l *Logger) Info(action string, fields map[string]any)  { l.log(zapcore.InfoLevel, action, fields, nil) }
func (l *Logger) Debug(action string, fields map[string]any) { l.log(zapcore.DebugLevel, action, fields, nil) }
func (l *Logger) Warn(action string, fields map[string]any)  { l.log(zapcore.WarnLevel, action, fields, nil) }
func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.log(zapcore.ErrorLevel, action, fields, err)
}

// Sync сбрасывает буферы zap; вызывать перед выходом из процесса.
func (l *Logger) Sync() {
	if l != nil && l.z != nil {
		_ = l.z.Sync()
	}
}

func hostname() string { h, _ := os.Hostname(); return h }

func errType(err error) string { return fmt.Sprintf("%T", err) }
