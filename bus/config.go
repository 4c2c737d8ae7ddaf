package bus

import (
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// The two broadcast topics the relay uses. All clients share both; the
// per-session correlation filter provides logical isolation.
const (
	// TopicAudio carries AudioEnvelope payloads from sessions to the worker.
	TopicAudio = "audio_chunks"
	// TopicTranscripts carries TranscriptEnvelope payloads back to sessions.
	TopicTranscripts = "transcripts"
)

// Config holds bus connection configuration.
type Config struct {
	// URL is the Redis connection URL (redis://host:port/db).
	URL string `mapstructure:"redis_url"`

	// PoolSize is the maximum number of socket connections.
	PoolSize int `mapstructure:"pool_size"`

	// DialTimeout is the timeout for establishing new connections (e.g. "5s").
	DialTimeout string `mapstructure:"dial_timeout"`

	// WriteTimeout is the timeout for socket writes (e.g. "3s").
	WriteTimeout string `mapstructure:"write_timeout"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "3s"
	}
}

// Validate checks that required fields are present and parseable.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("bus url is required")
	}
	if _, err := goredis.ParseURL(c.URL); err != nil {
		return fmt.Errorf("invalid bus url %q: %w", c.URL, err)
	}
	if _, err := time.ParseDuration(c.DialTimeout); err != nil {
		return fmt.Errorf("invalid dial_timeout %q: %w", c.DialTimeout, err)
	}
	if _, err := time.ParseDuration(c.WriteTimeout); err != nil {
		return fmt.Errorf("invalid write_timeout %q: %w", c.WriteTimeout, err)
	}
	return nil
}
