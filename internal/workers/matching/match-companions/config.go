package matchcompanions

import (
	"fmt"
	"time"
)

type Config struct {
	Timeout time.Duration
	// FetchLimit bounds the population loaded when the job carries no candidates.
	FetchLimit int
	MaxTopK    int
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:    15 * time.Second,
		FetchLimit: 500,
		MaxTopK:    50,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.FetchLimit <= 0 {
		return fmt.Errorf("fetch_limit must be positive")
	}
	if c.MaxTopK <= 0 {
		return fmt.Errorf("max_top_k must be positive")
	}
	return nil
}
