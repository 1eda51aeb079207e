package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	DefaultPort = 5000
)

// DefaultCommand runs the bundled model script relative to the working directory.
var DefaultCommand = []string{"python", "../ml-model/predict.py"}

// Load reads the optional config file and the environment and returns the
// validated configuration. configFile may be empty.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", DefaultPort)
	v.SetDefault("listen_host", "")
	v.SetDefault("predictor.command", DefaultCommand)
	v.SetDefault("predictor.work_dir", "")
	v.SetDefault("predictor.max_concurrent", 0)
	v.SetDefault("predictor.queue_timeout", "0s")
	v.SetDefault("predictor.timeout", "0s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var configuration Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToFieldsHook(),
	))
	if err := v.Unmarshal(&configuration, hook); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := configuration.validate(); err != nil {
		return nil, err
	}

	return &configuration, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if len(c.Predictor.Command) == 0 || c.Predictor.Command[0] == "" {
		return errors.New("predictor.command is required")
	}
	if c.Predictor.MaxConcurrent < 0 {
		return errors.New("predictor.max_concurrent must not be negative")
	}
	if c.Predictor.QueueTimeout < 0 || c.Predictor.Timeout < 0 {
		return errors.New("predictor timeouts must not be negative")
	}
	return nil
}

// stringToFieldsHook splits a whitespace separated string, as set through
// PREDICTOR_COMMAND, into an argv slice. YAML lists pass through untouched.
func stringToFieldsHook() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Slice {
			return data, nil
		}
		return strings.Fields(reflect.ValueOf(data).String()), nil
	}
}
