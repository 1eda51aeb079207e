package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// The process-wide logger. Packages grab it at init time, so it is never
// replaced, only reconfigured.
var logger = logrus.New()

// Options controls how the process-wide logger writes.
type Options struct {
	Level  string
	Format string
	// File enables a rotating log file alongside stderr.
	File string
	// Output overrides stderr. Used by tests.
	Output io.Writer
}

// InitLogger sets the level and the default text formatter.
func InitLogger(level logrus.Level) {
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Configure applies opts to the process-wide logger.
func Configure(opts Options) error {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	InitLogger(level)

	switch strings.ToLower(opts.Format) {
	case "", "text":
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", opts.Format)
	}

	var out io.Writer = os.Stderr
	if opts.Output != nil {
		out = opts.Output
	}
	if opts.File != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	logger.SetOutput(out)

	return nil
}

// GetLogger returns the process-wide logger.
func GetLogger() *logrus.Logger {
	return logger
}
