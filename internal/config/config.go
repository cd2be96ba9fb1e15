// Package config loads qaco settings from defaults, a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. QACO_LOG_LEVEL.
const EnvPrefix = "QACO"

// Config holds all qaco settings.
type Config struct {
	Log      LogConfig
	Store    StoreConfig
	Strategy StrategyConfig
	Metrics  MetricsConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// StoreConfig holds run log configuration. An empty Path disables the run log.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// StrategyConfig holds solve defaults.
type StrategyConfig struct {
	Default string `mapstructure:"default" validate:"required"`
}

// MetricsConfig holds metrics output configuration. An empty File disables it.
type MetricsConfig struct {
	File string `mapstructure:"file"`
}

// validate is the shared struct validator.
var validate = validator.New()

// Load reads configuration. path names an explicit YAML file; when empty,
// qaco.yaml is searched in the working directory and ~/.config/qaco, and a
// missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("qaco")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/qaco")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	cfg.Log.Level = strings.ToLower(v.GetString("log.level"))
	cfg.Log.Format = strings.ToLower(v.GetString("log.format"))
	cfg.Store.Path = v.GetString("store.path")
	cfg.Strategy.Default = v.GetString("strategy.default")
	cfg.Metrics.File = v.GetString("metrics.file")

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("store.path", "")
	v.SetDefault("strategy.default", "uniform")
	v.SetDefault("metrics.file", "")
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", strings.ToLower(fe.Namespace()), fieldMessage(fe)))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
