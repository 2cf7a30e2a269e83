// Package logger builds the structured logger used across the holdings
// pipeline: logrus with a JSON formatter, caller reporting and an optional
// rotating file sink.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// LevelEnv overrides the configured log level when set.
const LevelEnv = "HOLDINGS_LOG_LEVEL"

// Log wraps logrus.Logger.
type Log struct {
	*logrus.Logger
}

// New returns a JSON logger writing to stderr at the level named by
// HOLDINGS_LOG_LEVEL, or info.
func New() *Log {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetReportCaller(true)
	l.SetFormatter(jsonFormatter())

	l.SetLevel(logrus.InfoLevel)
	if lvl, err := logrus.ParseLevel(strings.ToLower(os.Getenv(LevelEnv))); err == nil {
		l.SetLevel(lvl)
	}
	return &Log{Logger: l}
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() *Log {
	l := New()
	l.SetOutput(io.Discard)
	return l
}

// WithComponent tags entries with the emitting component.
func (l *Log) WithComponent(component string) *logrus.Entry {
	return l.Logger.WithField("component", component)
}

// Configure applies the level, format and output settings. An output other
// than "stdout", "stderr" or empty is a file path rotated by lumberjack.
// HOLDINGS_LOG_LEVEL still wins over level.
func (l *Log) Configure(level, format, output string, maxAgeDays int) error {
	if env := os.Getenv(LevelEnv); env != "" {
		level = env
	}
	if level != "" {
		lvl, err := logrus.ParseLevel(strings.ToLower(level))
		if err != nil {
			return fmt.Errorf("invalid log level '%s'", level)
		}
		l.SetLevel(lvl)
	}

	switch format {
	case "json", "":
		l.SetFormatter(jsonFormatter())
	case "text":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			TimestampFormat:  time.RFC3339,
			CallerPrettyfier: callerPrettyfier,
		})
	default:
		return fmt.Errorf("invalid log format '%s'", format)
	}

	switch output {
	case "stderr", "":
		l.SetOutput(os.Stderr)
	case "stdout":
		l.SetOutput(os.Stdout)
	default:
		l.SetOutput(&lumberjack.Logger{
			Filename: output,
			MaxAge:   maxAgeDays,
			MaxSize:  100,
			Compress: true,
		})
	}
	return nil
}

func jsonFormatter() *logrus.JSONFormatter {
	return &logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
		CallerPrettyfier: callerPrettyfier,
	}
}

func callerPrettyfier(f *runtime.Frame) (string, string) {
	return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
}
