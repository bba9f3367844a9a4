package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type MetricsConfig struct {
	Port int `mapstructure:"port"`
}

func (config MetricsConfig) validate() error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("invalid metrics port: %d", config.Port)
	}
	return nil
}

func (config MetricsConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return v.BindEnv("metrics.port", "METRICS_PORT")
}
