package logging

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

type cronLogger struct {
	l *slog.Logger
}

// CronLogger adapts l to the logger used by the cron scheduler. Cron's routine info messages are
// logged at debug level.
func CronLogger(l *slog.Logger) cron.Logger {
	return &cronLogger{l: l.With(slog.String("component", "cron"))}
}

func (c *cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(msg, keysAndValues...)
}

func (c *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	args := append([]any{slog.String(KeyError, err.Error())}, keysAndValues...)
	c.l.Error(msg, args...)
}
