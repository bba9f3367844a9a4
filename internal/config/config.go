package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger"`
	Bot     BotConfig     `mapstructure:"bot"`
	API     APIConfig     `mapstructure:"api"`
	DB      DBConfig      `mapstructure:"db"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

var configFile = "./configs/config.yaml"

func Get() *Config {

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to load .env file: %v", err)
	}

	file := configFile
	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		file = value
	}

	config, err := loadConfig(file)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	v := viper.New()
	v.SetConfigFile(file)
	v.AutomaticEnv()

	v.SetDefault("api.max_requests_per_second", 5)
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.catalog_cache_ttl", "10m")
	v.SetDefault("api.pending_verification_ttl", "30m")
	v.SetDefault("bot.drafts_expiration_days", 7)
	v.SetDefault("metrics.port", 9090)

	if err := bindEnvironmentVariables(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", file, err)
	}

	config := Config{}
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func bindEnvironmentVariables(v *viper.Viper) error {
	var errs []error

	bot, api, db, logger, metrics := BotConfig{}, APIConfig{}, DBConfig{}, LoggerConfig{}, MetricsConfig{}

	if err := bot.bindEnvironmentVariables(v); err != nil {
		errs = append(errs, fmt.Errorf("BotConfig: %w", err))
	}

	if err := api.bindEnvironmentVariables(v); err != nil {
		errs = append(errs, fmt.Errorf("APIConfig: %w", err))
	}

	if err := db.bindEnvironmentVariables(v); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := logger.bindEnvironmentVariables(v); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := metrics.bindEnvironmentVariables(v); err != nil {
		errs = append(errs, fmt.Errorf("MetricsConfig: %w", err))
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.Bot.validate(); err != nil {
		errs = append(errs, fmt.Errorf("BotConfig: %w", err))
	}

	if err := config.API.validate(); err != nil {
		errs = append(errs, fmt.Errorf("APIConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := config.Metrics.validate(); err != nil {
		errs = append(errs, fmt.Errorf("MetricsConfig: %w", err))
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func createMultiError(errs []error) error {
	return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
}
