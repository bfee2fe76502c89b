// Package log supplies leveled logging for gobump packages. Applications
// can integrate their own logger by passing an object implementing Logger
// to SetLogger, otherwise a default logger writing to os.Stdout is used.
package log

import "io"
import "os"
import "fmt"
import "sync"
import "time"
import "strings"

import "github.com/bnclabs/gobump/lib"

func init() {
	SetLogger(nil, Defaultsettings())
}

// Defaultsettings for default logger.
//
// "log.level" (string, default: "info")
//		One of ignore, fatal, error, warn, info, verbose, debug, trace.
//
// "log.file" (string, default: "")
//		Append log lines to this file, create it if missing. Empty string
//		logs to os.Stdout.
func Defaultsettings() lib.Settings {
	return lib.Settings{
		"log.level": "info",
		"log.file":  "",
	}
}

// Logger interface for gobump logging.
type Logger interface {
	SetLogLevel(string)
	Fatalf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Verbosef(format string, v ...interface{})
	Debugf(format string, v ...interface{})
	Tracef(format string, v ...interface{})
	Printlf(loglevel LogLevel, format string, v ...interface{})
}

// LogLevel defines log level.
type LogLevel int

const (
	logLevelIgnore LogLevel = iota + 1
	logLevelFatal
	logLevelError
	logLevelWarn
	logLevelInfo
	logLevelVerbose
	logLevelDebug
	logLevelTrace
)

var log Logger

// SetLogger to integrate gobump logging with application logging. If
// logger is nil a default logger is configured from setts, missing keys
// are picked from Defaultsettings().
func SetLogger(logger Logger, setts lib.Settings) Logger {
	if logger != nil {
		log = logger
		return log
	}

	setts = Defaultsettings().Mixin(setts)
	level := string2logLevel(setts.String("log.level"))
	var output io.Writer = os.Stdout
	if logfile := setts.String("log.file"); logfile != "" {
		flags := os.O_RDWR | os.O_APPEND | os.O_CREATE
		fd, err := os.OpenFile(logfile, flags, 0660)
		if err != nil {
			panic(fmt.Errorf("log.file %q: %v", logfile, err))
		}
		output = fd
	}
	log = &defaultLogger{level: level, output: output}
	return log
}

// defaultLogger with default log-file as os.Stdout and default log-level
// as logLevelInfo.
type defaultLogger struct {
	mu     sync.Mutex
	level  LogLevel
	output io.Writer
}

func (l *defaultLogger) SetLogLevel(level string) {
	l.mu.Lock()
	l.level = string2logLevel(level)
	l.mu.Unlock()
}

func (l *defaultLogger) Fatalf(format string, v ...interface{}) {
	l.Printlf(logLevelFatal, format, v...)
}

func (l *defaultLogger) Errorf(format string, v ...interface{}) {
	l.Printlf(logLevelError, format, v...)
}

func (l *defaultLogger) Warnf(format string, v ...interface{}) {
	l.Printlf(logLevelWarn, format, v...)
}

func (l *defaultLogger) Infof(format string, v ...interface{}) {
	l.Printlf(logLevelInfo, format, v...)
}

func (l *defaultLogger) Verbosef(format string, v ...interface{}) {
	l.Printlf(logLevelVerbose, format, v...)
}

func (l *defaultLogger) Debugf(format string, v ...interface{}) {
	l.Printlf(logLevelDebug, format, v...)
}

func (l *defaultLogger) Tracef(format string, v ...interface{}) {
	l.Printlf(logLevelTrace, format, v...)
}

func (l *defaultLogger) Printlf(level LogLevel, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.canlog(level) {
		return
	}
	ts := time.Now().Format("2006-01-02T15:04:05.999Z-07:00")
	line := fmt.Sprintf(format, v...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	fmt.Fprint(l.output, ts+" ["+level.String()+"] "+line)
}

func (l *defaultLogger) canlog(level LogLevel) bool {
	return level <= l.level
}

func (l LogLevel) String() string {
	switch l {
	case logLevelIgnore:
		return "Ignor"
	case logLevelFatal:
		return "Fatal"
	case logLevelError:
		return "Error"
	case logLevelWarn:
		return "Warng"
	case logLevelInfo:
		return "Infom"
	case logLevelVerbose:
		return "Verbs"
	case logLevelDebug:
		return "Debug"
	case logLevelTrace:
		return "Trace"
	}
	panic("unexpected log level") // should never reach here
}

func string2logLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "ignore":
		return logLevelIgnore
	case "fatal":
		return logLevelFatal
	case "error":
		return logLevelError
	case "warn":
		return logLevelWarn
	case "info":
		return logLevelInfo
	case "verbose":
		return logLevelVerbose
	case "debug":
		return logLevelDebug
	case "trace":
		return logLevelTrace
	}
	panic(fmt.Errorf("unexpected log level %q", s))
}

// SetLogLevel on the current logger.
func SetLogLevel(level string) {
	log.SetLogLevel(level)
}

func Fatalf(format string, v ...interface{}) {
	log.Printlf(logLevelFatal, format, v...)
}

func Errorf(format string, v ...interface{}) {
	log.Printlf(logLevelError, format, v...)
}

func Warnf(format string, v ...interface{}) {
	log.Printlf(logLevelWarn, format, v...)
}

func Infof(format string, v ...interface{}) {
	log.Printlf(logLevelInfo, format, v...)
}

func Verbosef(format string, v ...interface{}) {
	log.Printlf(logLevelVerbose, format, v...)
}

func Debugf(format string, v ...interface{}) {
	log.Printlf(logLevelDebug, format, v...)
}

func Tracef(format string, v ...interface{}) {
	log.Printlf(logLevelTrace, format, v...)
}
