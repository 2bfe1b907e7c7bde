package main

import (
	"os"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/brightpath-it/backoffice"
	"github.com/brightpath-it/backoffice/api"
	"github.com/brightpath-it/backoffice/cmd/backoffice/config"
	"github.com/brightpath-it/backoffice/internal/cache"
	"github.com/brightpath-it/backoffice/internal/geoip"
	"github.com/brightpath-it/backoffice/internal/logger"
	"github.com/brightpath-it/backoffice/internal/version"
)

func main() {
	var configFile string
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}
	if err := config.Load(configFile); err != nil {
		log.WithError(err).Fatal("could not load config")
	}
	c := config.Get()
	if err := logger.Init(c.Logging.InternalConf()); err != nil {
		log.WithError(err).Fatal("could not init logger")
	}
	log.WithField("version", version.VERSION).Info("Loaded Config")

	initCache(c)

	backs, err := config.LoadStorageBackends(c)
	if err != nil {
		log.Fatal(err)
	}

	var locator *geoip.Locator
	if c.GeoIP.Enabled {
		locator, err = geoip.Open(c.GeoIP.Database)
		if err != nil {
			log.WithError(err).Fatal("could not open geoip database")
		}
		defer locator.Close()
		log.Info("Loaded GeoIP database")
	}

	accessLog, err := logger.AccessLogWriter(c.Logging.AccessConf())
	if err != nil {
		log.Fatal(err)
	}

	bo, err := backoffice.New(
		c.Server, backs, api.Options{
			UsersEnabled: c.API.UsersEnabled,
			DefaultActor: c.API.DefaultActor,
			PublicActor:  c.API.PublicActor,
			CacheTTL:     c.API.CacheTTL.Duration(),
			GeoIP:        locator,
		}, accessLog,
	)
	if err != nil {
		log.Fatal(err)
	}
	log.Info("Initialized Back Office")

	bo.Start()
}

func initCache(c config.Config) {
	cache.SetDisabled(c.Caching.Disabled)
	cache.SetMaxLifetime(c.Caching.MaxLifetime.Duration())
	if redisAddr := c.Caching.RedisAddr; redisAddr != "" {
		if err := cache.UseRedisCache(
			&redis.Options{
				Addr:     redisAddr,
				Username: c.Caching.Username,
				Password: c.Caching.Password,
				DB:       c.Caching.RedisDB,
			},
		); err != nil {
			log.WithError(err).Fatal("could not init redis cache")
		}
		log.Info("Loaded Redis Cache")
		return
	}
	cache.UseMemoryCache(c.Caching.MemorySize)
}
