package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// CronLogger adapts the global logger to robfig/cron's Logger interface
type CronLogger struct{}

// Info logs routine scheduler messages at debug level
func (CronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug(msg, keyValueFields(keysAndValues)...)
}

// Error logs scheduler errors, including recovered job panics
func (CronLogger) Error(err error, msg string, keysAndValues ...any) {
	fields := append(keyValueFields(keysAndValues), zap.String("message", msg))
	log.Error(errorMessage(err), fields...)
}

func keyValueFields(keysAndValues []any) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, zap.Any(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1]))
	}
	return fields
}
