package config

import (
	"github.com/pkg/errors"
	"github.com/zachmann/go-utils/fileutils"
)

// geoIPConf configures the lookup of the country submissions come from
type geoIPConf struct {
	Enabled bool `yaml:"enabled"`
	// Database is the path of a MaxMind country or city database
	Database string `yaml:"database"`
}

func (c *geoIPConf) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Database == "" {
		return errors.New("database must be set if geoip is enabled")
	}
	if !fileutils.FileExists(c.Database) {
		return errors.Errorf("geoip database '%s' does not exist", c.Database)
	}
	return nil
}
