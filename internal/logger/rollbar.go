package logger

import (
	"fmt"
	"log"

	"github.com/rollbar/rollbar-go"
)

// RollbarConfig holds the settings reported with every Rollbar item.
type RollbarConfig struct {
	Token       string
	Environment string
	ServerHost  string
	CodeVersion string
}

// RollbarLogger reports to Rollbar and mirrors everything to a standard logger.
type RollbarLogger struct {
	std *StdLogger
}

var _ Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf RollbarConfig) *RollbarLogger {
	rollbar.SetToken(conf.Token)
	rollbar.SetEnvironment(conf.Environment)
	rollbar.SetServerHost(conf.ServerHost)
	rollbar.SetCodeVersion(conf.CodeVersion)
	return &RollbarLogger{std: NewStdLogger(std)}
}

// Enable turns reporting on or off without touching the local output.
func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Close flushes pending Rollbar items.
func (l *RollbarLogger) Close() {
	rollbar.Close()
}

func prepare(msg string, args []interface{}) []interface{} {
	out := make([]interface{}, 0, len(args)+1)
	for _, arg := range args {
		if err, ok := arg.(error); ok {
			out = append(out, err)
		}
	}
	out = append(out, msg)
	extras := map[string]interface{}{}
	for i, arg := range args {
		switch v := arg.(type) {
		case error:
		case map[string]interface{}:
			for k, val := range v {
				extras[k] = val
			}
		default:
			extras[argKey(i)] = v
		}
	}
	if len(extras) > 0 {
		out = append(out, extras)
	}
	return out
}

func argKey(i int) string {
	return fmt.Sprintf("arg%d", i)
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(prepare(msg, args)...)
	l.std.Debug(msg, args...)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(prepare(msg, args)...)
	l.std.Info(msg, args...)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(prepare(msg, args)...)
	l.std.Warn(msg, args...)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(prepare(msg, args)...)
	l.std.Error(msg, args...)
}
