package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/shardbotgo/internal/shardgroup"
)

// Config holds everything one shard-group instance needs to run.
type Config struct {
	// Shard assignment for this instance.
	Instance   int
	Instances  int
	ShardCount int
	ShardIDs   []int

	GatewayURL         string
	InsecureSkipVerify bool

	RedisAddr    string
	StoreTimeout time.Duration

	WebhookURL string
	SupportURL string

	ExtensionsPath string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	MaxInflight     int
}

// NewConfig validates a config. An empty shard ID set selects the canonical
// round-robin partition for the instance. A partition misconfiguration is
// the one fatal error class: the instance must not start serving with an
// invalid assignment.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GatewayURL == "" {
		return nil, errors.New("GatewayURL is a required configuration field and cannot be empty")
	}
	if cfg.ExtensionsPath == "" {
		return nil, errors.New("ExtensionsPath is a required configuration field and cannot be empty")
	}

	if len(cfg.ShardIDs) == 0 {
		cfg.ShardIDs = shardgroup.ShardsForInstance(cfg.Instance, cfg.Instances, cfg.ShardCount)
	}
	if err := cfg.Assignment().Validate(); err != nil {
		return nil, fmt.Errorf("shard assignment: %w", err)
	}

	return &cfg, nil
}

// Assignment returns the shard assignment described by the config.
func (c *Config) Assignment() shardgroup.Assignment {
	return shardgroup.Assignment{
		Instance:   c.Instance,
		Instances:  c.Instances,
		ShardCount: c.ShardCount,
		ShardIDs:   c.ShardIDs,
	}
}
