package nwire

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// BasicLogger is the logging the Container and Builder need.  Fields
// are merged in order.
type BasicLogger interface {
	Debug(msg string, fields ...map[string]any)
	Error(msg string, fields ...map[string]any)
	Warn(msg string, fields ...map[string]any)
}

// StdLogger is implemented by the base library log.Logger
type StdLogger interface {
	Print(v ...any)
}

type wrappedStdLogger struct {
	log StdLogger
}

// LoggerFromStd adapts a log.Logger (or anything with Print) to BasicLogger.
// Fields are printed as key=value pairs, sorted by key.
func LoggerFromStd(log StdLogger) BasicLogger {
	return wrappedStdLogger{log: log}
}

func (std wrappedStdLogger) Error(msg string, fields ...map[string]any) {
	if len(fields) == 0 {
		std.log.Print(msg)
		return
	}
	vals := make([]any, 1, len(fields)*4+1)
	vals[0] = msg
	for _, m := range fields {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			vals = append(vals, " "+k+"="+fmt.Sprint(m[k]))
		}
	}
	std.log.Print(vals...)
}

func (std wrappedStdLogger) Warn(msg string, fields ...map[string]any) {
	std.Error(msg, fields...)
}

func (std wrappedStdLogger) Debug(msg string, fields ...map[string]any) {
	std.Error(msg, fields...)
}

type zapLogger struct {
	log *zap.Logger
}

// LoggerFromZap adapts a zap.Logger to BasicLogger
func LoggerFromZap(log *zap.Logger) BasicLogger {
	return zapLogger{log: log}
}

func (z zapLogger) Debug(msg string, fields ...map[string]any) {
	z.log.Debug(msg, zapFields(fields)...)
}

func (z zapLogger) Error(msg string, fields ...map[string]any) {
	z.log.Error(msg, zapFields(fields)...)
}

func (z zapLogger) Warn(msg string, fields ...map[string]any) {
	z.log.Warn(msg, zapFields(fields)...)
}

func zapFields(fields []map[string]any) []zap.Field {
	var zf []zap.Field
	for _, m := range fields {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err, ok := m[k].(error); ok {
				zf = append(zf, zap.NamedError(k, err))
				continue
			}
			zf = append(zf, zap.Any(k, m[k]))
		}
	}
	return zf
}

// NoLogger returns a BasicLogger that discards all inputs
func NoLogger() BasicLogger {
	return nilLogger{}
}

type nilLogger struct{}

var _ BasicLogger = nilLogger{}

func (nilLogger) Error(msg string, fields ...map[string]any) {}
func (nilLogger) Warn(msg string, fields ...map[string]any)  {}
func (nilLogger) Debug(msg string, fields ...map[string]any) {}
