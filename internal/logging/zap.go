// Package logging adapts zap to the Nakama runtime.Logger interface so the
// coordinator can run outside a Nakama server.
package logging

import (
	"fmt"
	"sort"

	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements runtime.Logger with printf-style messages and
// structured fields.
type ZapLogger struct {
	logger *zap.Logger
	fields map[string]interface{}
}

// New wraps z. A nil z logs nothing.
func New(z *zap.Logger) *ZapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &ZapLogger{logger: z.WithOptions(zap.AddCallerSkip(1)), fields: map[string]interface{}{}}
}

// NewConsole builds a human readable logger for local tools.
func NewConsole(verbose bool) (*ZapLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return New(z), nil
}

func (l *ZapLogger) Debug(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}

func (l *ZapLogger) Info(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l *ZapLogger) Warn(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l *ZapLogger) Error(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l *ZapLogger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

// WithFields returns a child logger; l is unchanged.
func (l *ZapLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	zf := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		merged[k] = fields[k]
		zf = append(zf, zap.Any(k, fields[k]))
	}
	return &ZapLogger{logger: l.logger.With(zf...), fields: merged}
}

func (l *ZapLogger) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		out[k] = v
	}
	return out
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

var _ runtime.Logger = (*ZapLogger)(nil)
