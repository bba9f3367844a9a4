package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

type APIConfig struct {
	BaseURL                string        `mapstructure:"base_url"`
	MaxRequestsPerSecond   float32       `mapstructure:"max_requests_per_second"`
	Timeout                time.Duration `mapstructure:"timeout"`
	CatalogCacheTTL        time.Duration `mapstructure:"catalog_cache_ttl"`
	PendingVerificationTTL time.Duration `mapstructure:"pending_verification_ttl"`
}

func (config APIConfig) validate() error {
	var errs []error

	if config.BaseURL == "" {
		errs = append(errs, fmt.Errorf("missing variable: base_url"))
	} else if u, err := url.Parse(config.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid base_url: %q", config.BaseURL))
	}

	if config.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive"))
	}

	if config.CatalogCacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("catalog_cache_ttl must be positive"))
	}

	if config.PendingVerificationTTL <= 0 {
		errs = append(errs, fmt.Errorf("pending_verification_ttl must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config APIConfig) bindEnvironmentVariables(v *viper.Viper) error {

	err := v.BindEnv("api.base_url", "API_BASE_URL")
	if err != nil {
		return err
	}

	err = v.BindEnv("api.max_requests_per_second", "API_MAX_REQUESTS_PER_SECOND")
	if err != nil {
		return err
	}

	return v.BindEnv("api.timeout", "API_TIMEOUT")
}
