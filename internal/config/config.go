package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
	Store    StoreConfig    `mapstructure:"store" validate:"required"`
	Provider ProviderConfig `mapstructure:"provider" validate:"required"`
	Export   ExportConfig   `mapstructure:"export"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// TaskConfig contains the background task runner settings.
type TaskConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"required,gt=0"`
}

// StoreConfig controls retention of run records. A zero RunTTL keeps
// terminal runs for the process lifetime.
type StoreConfig struct {
	RunTTL     time.Duration `mapstructure:"run_ttl" validate:"gte=0"`
	GCInterval time.Duration `mapstructure:"gc_interval" validate:"required,gt=0"`
}

// ProviderConfig contains settings for outbound LLM provider requests.
// Base URLs are overridable to point at proxies or compatible gateways.
type ProviderConfig struct {
	RequestTimeout   time.Duration `mapstructure:"request_timeout" validate:"required,gt=0"`
	MaxAttempts      int           `mapstructure:"max_attempts" validate:"required,gt=0"`
	RetryBaseDelay   time.Duration `mapstructure:"retry_base_delay" validate:"required,gt=0"`
	RequestDelay     time.Duration `mapstructure:"request_delay" validate:"gte=0"`
	BatchDelay       time.Duration `mapstructure:"batch_delay" validate:"gte=0"`
	MaxTokens        int           `mapstructure:"max_tokens" validate:"required,gt=0"`
	OpenAIBaseURL    string        `mapstructure:"openai_base_url" validate:"omitempty,url"`
	AnthropicBaseURL string        `mapstructure:"anthropic_base_url" validate:"omitempty,url"`
}

// ExportConfig controls the optional result deposit. When Dir is empty
// no deposit sink is wired and results are only served over HTTP.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}
