package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type BotConfig struct {
	Token                string `mapstructure:"token"`
	DraftsExpirationDays int    `mapstructure:"drafts_expiration_days"`
}

func (config BotConfig) validate() error {

	var missingFields []string

	if config.Token == "" {
		missingFields = append(missingFields, "token")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	if config.DraftsExpirationDays <= 0 {
		return fmt.Errorf("drafts_expiration_days must be positive, got %d", config.DraftsExpirationDays)
	}

	return nil
}

func (config BotConfig) bindEnvironmentVariables(v *viper.Viper) error {
	var errs []error

	if err := v.BindEnv("bot.token", "TOKEN"); err != nil {
		errs = append(errs, err)
	}

	if err := v.BindEnv("bot.drafts_expiration_days", "DRAFTS_EXPIRATION_DAYS"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
