// Package log is the logging facility shared by every gpcc package: a thin,
// level-aware wrapper around github.com/cosmosnicolaou/llog in the style of
// glog (AlsoLogToStderr, -v levels, per-call V-gating). Call Configure once
// during process start-up; every other function is safe to call from any
// thread.
package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/cosmosnicolaou/llog"
)

const stackSkip = 1

// Level is a verbosity level for V-style conditional logging.
type Level int32

type logger struct {
	log        *llog.Log
	mu         sync.Mutex
	autoFlush  bool
	logDir     string
	configured bool
}

var std = &logger{log: llog.NewLogger("gpcc", stackSkip)}

// Option configures Configure's behaviour.
type Option interface{ apply(*logger) }

type optFunc func(*logger)

func (f optFunc) apply(l *logger) { f(l) }

// AlsoLogToStderr makes Configure additionally write every log line to
// stderr, regardless of severity threshold.
func AlsoLogToStderr(v bool) Option {
	return optFunc(func(l *logger) { l.log.SetAlsoLogToStderr(v) })
}

// LogToStderr routes every log line to stderr only, bypassing log files.
func LogToStderr(v bool) Option {
	return optFunc(func(l *logger) { l.log.SetLogToStderr(v) })
}

// LogDir sets the directory log files are written to.
func LogDir(dir string) Option {
	return optFunc(func(l *logger) { l.logDir = dir; l.log.SetLogDir(dir) })
}

// VLevel sets the default verbosity threshold for V-gated logging.
func VLevel(v Level) Option {
	return optFunc(func(l *logger) { l.log.SetV(llog.Level(v)) })
}

// AutoFlush causes every call to flush its log file immediately, trading
// throughput for a guarantee that a crash never loses a buffered line.
func AutoFlush(v bool) Option {
	return optFunc(func(l *logger) { l.autoFlush = v })
}

// Configure applies opts to the process-wide logger. Calling it more than
// once is a no-op after the first call; it returns false in that case.
func Configure(opts ...Option) bool {
	std.mu.Lock()
	defer std.mu.Unlock()
	if std.configured {
		return false
	}
	for _, o := range opts {
		o.apply(std)
	}
	std.configured = true
	return true
}

func (l *logger) maybeFlush() {
	if l.autoFlush {
		l.log.Flush()
	}
}

// LogDirectory returns the directory log files are written to.
func LogDirectory() string {
	if std.logDir != "" {
		return std.logDir
	}
	return os.TempDir()
}

// V reports whether logging at the given verbosity level is currently
// enabled, so callers can skip building an expensive log message.
func V(v Level) bool { return std.log.V(llog.Level(v)) }

// Info logs to the INFO log. Arguments are handled as with fmt.Print.
func Info(args ...interface{}) {
	std.log.Print(llog.InfoLog, args...)
	std.maybeFlush()
}

// Infof logs to the INFO log. Arguments are handled as with fmt.Printf.
func Infof(format string, args ...interface{}) {
	std.log.Printf(llog.InfoLog, format, args...)
	std.maybeFlush()
}

// Error logs to the ERROR and INFO logs.
func Error(args ...interface{}) {
	std.log.Print(llog.ErrorLog, args...)
	std.maybeFlush()
}

// Errorf logs to the ERROR and INFO logs.
func Errorf(format string, args ...interface{}) {
	std.log.Printf(llog.ErrorLog, format, args...)
	std.maybeFlush()
}

// Fatal logs to the FATAL, ERROR and INFO logs, then exits the process.
func Fatal(args ...interface{}) {
	std.log.Print(llog.FatalLog, args...)
}

// Fatalf logs to the FATAL, ERROR and INFO logs, then exits the process.
func Fatalf(format string, args ...interface{}) {
	std.log.Printf(llog.FatalLog, format, args...)
}

// Panic logs to the ERROR log, then panics with the formatted message.
func Panic(args ...interface{}) {
	Error(args...)
	panic(fmt.Sprint(args...))
}

// Panicf logs to the ERROR log, then panics with the formatted message.
func Panicf(format string, args ...interface{}) {
	Errorf(format, args...)
	panic(fmt.Sprintf(format, args...))
}

// Flush flushes any buffered log output.
func Flush() { std.log.Flush() }
