// Package config loads the configuration of the back office server and
// command line tools
package config

import (
	"os"
	"reflect"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/zachmann/go-utils/fileutils"
	"gopkg.in/yaml.v3"

	"github.com/brightpath-it/backoffice"
)

// Config holds the complete configuration
type Config struct {
	Server  backoffice.ServerConf `yaml:"server"`
	Storage storageConf           `yaml:"storage"`
	API     apiConf               `yaml:"api"`
	Caching cachingConf           `yaml:"cache"`
	Logging loggingConf           `yaml:"logging"`
	GeoIP   geoIPConf             `yaml:"geoip"`
}

// secrets can be passed through the environment or a .env file instead of
// the config file; set values take precedence over the file
type secrets struct {
	DSN           string `env:"BACKOFFICE_DB_DSN"`
	DBPassword    string `env:"BACKOFFICE_DB_PASSWORD"`
	RedisPassword string `env:"BACKOFFICE_REDIS_PASSWORD"`
}

type configValidator interface {
	validate() error
}

var conf *Config

// Get returns the loaded Config
func Get() Config {
	if conf == nil {
		return defaultConfig()
	}
	return *conf
}

func defaultConfig() Config {
	return Config{
		Server: backoffice.ServerConf{
			Port: 8765,
		},
		Storage: defaultStorageConf,
		API:     defaultAPIConf,
		Caching: defaultCachingConf,
		Logging: defaultLoggingConf,
	}
}

var possibleConfigLocations = []string{
	".",
	"config",
	"/config",
	"/backoffice/config",
	"/backoffice",
	"/data/config",
	"/data",
	"/etc/backoffice",
}

var envFiles = []string{
	".env",
	".env.local",
}

// Load reads the config file, applies environment overrides and validates
// the result. If filename is empty the config is searched in the default
// locations.
func Load(filename string) error {
	data, err := readConfigFile(filename)
	if err != nil {
		return err
	}
	c, err := parse(data)
	if err != nil {
		return err
	}
	conf = c
	return nil
}

func readConfigFile(filename string) ([]byte, error) {
	if filename != "" {
		data, err := os.ReadFile(filename)
		return data, errors.Wrapf(err, "could not read config file '%s'", filename)
	}
	for _, dir := range possibleConfigLocations {
		for _, name := range []string{
			"config.yaml",
			"backoffice.yaml",
		} {
			path := dir + "/" + name
			if !fileutils.FileExists(path) {
				continue
			}
			log.WithField("file", path).Debug("found config file")
			data, err := os.ReadFile(path)
			return data, errors.Wrapf(err, "could not read config file '%s'", path)
		}
	}
	return nil, errors.New("could not find config file in any of the possible locations")
}

func parse(data []byte) (*Config, error) {
	c := defaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "could not parse config")
	}
	if err := applyEnv(&c); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func loadEnvFiles() error {
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if fileutils.FileExists(f) {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return errors.Wrap(godotenv.Load(existing...), "could not load env files")
}

func applyEnv(c *Config) error {
	if err := loadEnvFiles(); err != nil {
		return err
	}
	var s secrets
	if err := env.Parse(&s); err != nil {
		return errors.Wrap(err, "could not parse environment")
	}
	if s.DSN != "" {
		c.Storage.DSN = s.DSN
	}
	if s.DBPassword != "" {
		c.Storage.Password = s.DBPassword
	}
	if s.RedisPassword != "" {
		c.Caching.Password = s.RedisPassword
	}
	return nil
}

func (c *Config) validate() error {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		fieldVal := v.Field(i)
		if !fieldVal.CanAddr() {
			continue
		}
		if validator, ok := fieldVal.Addr().Interface().(configValidator); ok {
			if err := validator.validate(); err != nil {
				return errors.Errorf("validation failed for field '%s': %s", t.Field(i).Name, err.Error())
			}
		}
	}
	return nil
}
