package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/zachmann/go-utils/duration"

	"github.com/brightpath-it/backoffice/storage"
)

// apiConf holds API-related configuration
type apiConf struct {
	UsersEnabled bool `yaml:"users_enabled"`
	// DefaultActor is recorded as the author of admin changes while no
	// admin users exist
	DefaultActor string `yaml:"default_actor"`
	// PublicActor is recorded as the author of submitted requests
	PublicActor    string                  `yaml:"public_actor"`
	CacheTTL       duration.DurationOption `yaml:"cache_ttl"`
	Argon2idParams storage.Argon2idParams  `yaml:"password_hashing"`
}

func (c *apiConf) validate() error {
	if c.DefaultActor == "" {
		return errors.New("default_actor must not be empty")
	}
	if c.PublicActor == "" {
		return errors.New("public_actor must not be empty")
	}
	if c.CacheTTL.Duration() < 0 {
		return errors.New("cache_ttl must not be negative")
	}
	return nil
}

var defaultAPIConf = apiConf{
	UsersEnabled: true,
	DefaultActor: "admin",
	PublicActor:  "website",
	CacheTTL:     duration.DurationOption(5 * time.Minute),
	Argon2idParams: storage.Argon2idParams{
		Time:        1,
		MemoryKiB:   64 * 1024,
		Parallelism: 4,
		KeyLen:      64,
		SaltLen:     32,
	},
}
