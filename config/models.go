package config

import (
	"net"
	"strconv"
	"time"
)

// PredictorConfig describes how the external prediction process is run.
type PredictorConfig struct {
	// Command is the argv prefix; item_id and date are appended to it.
	Command       []string      `mapstructure:"command"`
	WorkDir       string        `mapstructure:"work_dir"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	QueueTimeout  time.Duration `mapstructure:"queue_timeout"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Config holds the application configuration.
type Config struct {
	Port       int             `mapstructure:"port"`
	ListenHost string          `mapstructure:"listen_host"`
	Predictor  PredictorConfig `mapstructure:"predictor"`
	Log        LogConfig       `mapstructure:"log"`
}

// ListenAddress returns the host:port the server binds to.
func (c *Config) ListenAddress() string {
	return net.JoinHostPort(c.ListenHost, strconv.Itoa(c.Port))
}
