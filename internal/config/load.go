package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally a config
// file. Environment variables take precedence over values from config
// files. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config.yaml in the working directory; absence is fine.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// BULKPROMPT_SERVER_PORT overrides server.port, and so on.
	v.SetEnvPrefix("BULKPROMPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers a default for every key so AutomaticEnv can
// resolve them during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("task.worker_count", 4)
	v.SetDefault("task.queue_size", 100)

	v.SetDefault("store.run_ttl", time.Hour)
	v.SetDefault("store.gc_interval", 5*time.Minute)

	v.SetDefault("provider.request_timeout", 90*time.Second)
	v.SetDefault("provider.max_attempts", 3)
	v.SetDefault("provider.retry_base_delay", 10*time.Second)
	v.SetDefault("provider.request_delay", 2*time.Second)
	v.SetDefault("provider.batch_delay", 3*time.Second)
	v.SetDefault("provider.max_tokens", 1024)
	v.SetDefault("provider.openai_base_url", "")
	v.SetDefault("provider.anthropic_base_url", "")

	v.SetDefault("export.dir", "")
}
