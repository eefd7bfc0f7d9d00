package logger

import (
	"fmt"
	"log"
	"strings"
)

// Logger is the leveled logger used by services.
// args are printed after msg; errors and maps are formatted with %+v.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// StdLogger writes to a standard library logger.
type StdLogger struct {
	std *log.Logger
}

var _ Logger = (*StdLogger)(nil)

// NewStdLogger wraps std, or the standard logger when std is nil.
func NewStdLogger(std *log.Logger) *StdLogger {
	if std == nil {
		std = log.Default()
	}
	return &StdLogger{std: std}
}

func (l *StdLogger) print(level, msg string, args []interface{}) {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(level)
	sb.WriteString("] ")
	sb.WriteString(msg)
	for _, arg := range args {
		sb.WriteString(" ")
		sb.WriteString(fmt.Sprintf("%+v", arg))
	}
	l.std.Println(sb.String())
}

func (l *StdLogger) Debug(msg string, args ...interface{}) { l.print("DEBUG", msg, args) }
func (l *StdLogger) Info(msg string, args ...interface{})  { l.print("INFO", msg, args) }
func (l *StdLogger) Warn(msg string, args ...interface{})  { l.print("WARN", msg, args) }
func (l *StdLogger) Error(msg string, args ...interface{}) { l.print("ERROR", msg, args) }
