package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/skillsenselab/audio-relay/errors"
	"github.com/skillsenselab/audio-relay/logger"
)

// Client wraps a go-redis client with service logging. One Client is shared
// per process; each Subscribe call owns its own subscription connection.
type Client struct {
	rdb    *goredis.Client
	log    *logger.Logger
	cfg    Config
	closed bool
	mu     sync.Mutex
}

// New creates a new bus client with the given configuration and logger.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bus config: %w", err)
	}

	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("bus config: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	if d, err := time.ParseDuration(cfg.DialTimeout); err == nil {
		opts.DialTimeout = d
	}
	if d, err := time.ParseDuration(cfg.WriteTimeout); err == nil {
		opts.WriteTimeout = d
	}

	rdb := goredis.NewClient(opts)

	log.Info("Bus client created", map[string]interface{}{
		"addr":      opts.Addr,
		"db":        opts.DB,
		"pool_size": opts.PoolSize,
	})

	return &Client{rdb: rdb, log: log, cfg: cfg}, nil
}

// Ping verifies the bus connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	pong, err := c.rdb.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("bus ping failed: %w", err)
	}
	if pong != "PONG" {
		return fmt.Errorf("unexpected bus ping response: %s", pong)
	}
	return nil
}

// Publish sends a payload to every active subscriber of the topic.
// Delivery is at-most-once; there is no replay for late subscribers.
func (c *Client) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := c.rdb.Publish(ctx, topic, payload).Err(); err != nil {
		return errors.Bus("publish", topic, err)
	}
	return nil
}

// Subscribe opens a new subscription to the topic. It returns once the
// broker has confirmed the subscription, so every message published
// afterwards is delivered on Messages. The caller owns the subscription
// and must Close it.
func (c *Client) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	pubsub := c.rdb.Subscribe(ctx, topic)

	// Wait for the broker's confirmation before handing out the
	// subscription; Subscribe alone does not guarantee it is active.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, errors.Bus("subscribe", topic, err)
	}

	return newSubscription(topic, pubsub), nil
}

// Close closes the bus connection. Safe to call multiple times.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.log.Info("Closing bus connection")
	c.closed = true
	return c.rdb.Close()
}

// Unwrap returns the underlying go-redis client for advanced operations.
func (c *Client) Unwrap() *goredis.Client {
	return c.rdb
}
