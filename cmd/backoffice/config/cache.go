package config

import (
	"github.com/pkg/errors"
	"github.com/zachmann/go-utils/duration"
)

type cachingConf struct {
	RedisAddr   string                  `yaml:"redis_addr"`
	Username    string                  `yaml:"username"`
	Password    string                  `yaml:"password"`
	RedisDB     int                     `yaml:"redis_db"`
	Disabled    bool                    `yaml:"disabled"`
	MaxLifetime duration.DurationOption `yaml:"max_lifetime"`
	// MemorySize is the maximum number of entries of the in-memory cache
	MemorySize int `yaml:"memory_size"`
}

func (c *cachingConf) validate() error {
	if c.RedisAddr == "" && c.MemorySize <= 0 {
		return errors.New("memory_size must be positive")
	}
	return nil
}

var defaultCachingConf = cachingConf{
	MemorySize: 10000,
}
