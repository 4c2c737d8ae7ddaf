// Package config loads the service configuration from the process
// environment, with optional .env file support and stated defaults.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/skillsenselab/audio-relay/logger"
)

// Environment variable keys and their defaults.
const (
	DefaultAppPort           = 8000
	DefaultRedisURL          = "redis://redis:6379/0"
	DefaultMaxAudioSizeBytes = 1024 * 1024 // 1MB
	DefaultWorkerBackoff     = 5 * time.Second
)

// Config holds the complete service configuration.
type Config struct {
	// AppPort is the gateway listen port (APP_PORT).
	AppPort int
	// RedisURL is the bus connection URL (REDIS_URL).
	RedisURL string
	// MaxAudioSizeBytes is the largest accepted audio frame (MAX_AUDIO_SIZE_BYTES).
	MaxAudioSizeBytes int
	// WorkerRestartBackoff is the delay before the worker's supervisory loop
	// restarts after a failure (WORKER_RESTART_BACKOFF).
	WorkerRestartBackoff time.Duration
	// Log configures structured logging (LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT).
	Log logger.Config
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing .env is not an error

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("app_port", DefaultAppPort)
	v.SetDefault("redis_url", DefaultRedisURL)
	v.SetDefault("max_audio_size_bytes", DefaultMaxAudioSizeBytes)
	v.SetDefault("worker_restart_backoff", DefaultWorkerBackoff.String())
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("log_output", "stdout")

	cfg := &Config{
		AppPort:              v.GetInt("app_port"),
		RedisURL:             v.GetString("redis_url"),
		MaxAudioSizeBytes:    v.GetInt("max_audio_size_bytes"),
		WorkerRestartBackoff: v.GetDuration("worker_restart_backoff"),
		Log: logger.Config{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
			Output: v.GetString("log_output"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.AppPort < 1 || c.AppPort > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535 (got: %d)", c.AppPort)
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if c.MaxAudioSizeBytes < 1 {
		return fmt.Errorf("MAX_AUDIO_SIZE_BYTES must be positive (got: %d)", c.MaxAudioSizeBytes)
	}
	if c.WorkerRestartBackoff <= 0 {
		return fmt.Errorf("WORKER_RESTART_BACKOFF must be positive (got: %s)", c.WorkerRestartBackoff)
	}
	return c.Log.Validate()
}
