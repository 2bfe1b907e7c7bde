package config

import (
	"slices"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/brightpath-it/backoffice/storage"
	"github.com/brightpath-it/backoffice/storage/model"
)

type storageConf struct {
	Driver  storage.DriverType `yaml:"driver"`
	DataDir string             `yaml:"data_dir"`
	DSN     string             `yaml:"dsn"`
	storage.DSNConf `yaml:",inline"`
	Debug  bool  `yaml:"debug"`
	NodeID int64 `yaml:"node_id"`
}

func (c *storageConf) validate() error {
	if !slices.Contains(storage.SupportedDrivers, c.Driver) {
		return errors.Errorf("error in storage conf: unsupported driver '%s'", c.Driver)
	}
	if c.NodeID < 0 || c.NodeID > 1023 {
		return errors.New("error in storage conf: node_id must be between 0 and 1023")
	}
	if c.Driver == storage.DriverSQLite {
		if c.DataDir == "" && c.DSN == "" {
			return errors.New("error in storage conf: data_dir must be specified")
		}
		return nil
	}
	var err error
	if c.DSN == "" {
		c.DSN, err = storage.DSN(c.Driver, c.DSNConf)
	}
	return err
}

var defaultStorageConf = storageConf{
	Driver:  storage.DriverSQLite,
	DataDir: ".",
	DSNConf: storage.DSNConf{
		User: "backoffice",
		Host: "localhost",
		DB:   "backoffice",
	},
	Debug: false,
}

// LoadStorageBackends loads and returns the storage backends for the passed Config
func LoadStorageBackends(c Config) (model.Backends, error) {
	cfg := storage.Config{
		Driver:    c.Storage.Driver,
		DSN:       c.Storage.DSN,
		DataDir:   c.Storage.DataDir,
		Debug:     c.Storage.Debug,
		NodeID:    c.Storage.NodeID,
		UsersHash: c.API.Argon2idParams,
	}
	backs, err := storage.LoadStorageBackends(cfg)
	if err != nil {
		return model.Backends{}, err
	}
	log.WithField("driver", c.Storage.Driver).Info("Loaded storage backend")
	return backs, nil
}
