package api

import (
	"embed"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/brightpath-it/backoffice/internal/geoip"
	"github.com/brightpath-it/backoffice/internal/version"
	"github.com/brightpath-it/backoffice/storage/model"
)

//go:embed openapi.yaml
var assets embed.FS

// Options controls optional features of the API registration.
type Options struct {
	// UsersEnabled controls whether the user management API is mounted.
	UsersEnabled bool
	// DefaultActor is recorded as the author of changes while no admin
	// users exist
	DefaultActor string
	// PublicActor is recorded as the author of publicly submitted requests
	PublicActor string
	// CacheTTL is how long public catalog and settings reads are cached
	CacheTTL time.Duration
	// GeoIP resolves the source country of submissions; may be nil
	GeoIP *geoip.Locator
	// ServerURL is advertised in the OpenAPI document
	ServerURL string
}

// DefaultOptions are used for zero fields of the Options passed to Register
var DefaultOptions = Options{
	UsersEnabled: true,
	DefaultActor: "admin",
	PublicActor:  "website",
	CacheTTL:     5 * time.Minute,
}

func (o Options) withDefaults() Options {
	if o.DefaultActor == "" {
		o.DefaultActor = DefaultOptions.DefaultActor
	}
	if o.PublicActor == "" {
		o.PublicActor = DefaultOptions.PublicActor
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultOptions.CacheTTL
	}
	return o
}

// Register mounts all API routes under the provided group.
func Register(r fiber.Router, storages model.Backends, opts Options) error {
	opts = opts.withDefaults()

	openapiRaw, err := assets.ReadFile("openapi.yaml")
	if err != nil {
		return errors.Wrap(err, "api: failed to read openapi.yaml")
	}
	// Update servers section to point to this instance
	openapiData := updateOpenAPIServers(openapiRaw, opts.ServerURL)
	openapiData = ensureBasicAuthSecurity(openapiData)

	r.Get(
		"/openapi.yaml", func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderContentType, "application/yaml")
			return c.Send(openapiData)
		},
	)
	r.Get(
		"/health", func(c *fiber.Ctx) error {
			return respond(
				c, fiber.StatusOK, fiber.Map{
					"status":  "ok",
					"version": version.VERSION,
				},
			)
		},
	)

	admin := authMiddleware(storages.Users, opts.DefaultActor)

	for _, kind := range model.Kinds {
		store := storages.RequestStoreFor(kind)
		if store == nil {
			return errors.Errorf("api: no storage for %s requests", kind.Name)
		}
		registerRequests(r, store, admin, opts)
	}
	registerCatalog(r, storages.Services, admin, opts.CacheTTL)
	registerCatalog(r, storages.Trainings, admin, opts.CacheTTL)
	registerCatalog(r, storages.Careers, admin, opts.CacheTTL)
	registerSettings(r, storages.KV, admin, opts.CacheTTL)
	registerDashboard(r, storages, admin)
	// Users management
	if opts.UsersEnabled {
		registerUsers(r, storages.Users, admin)
	}
	return nil
}

func updateOpenAPIServers(doc []byte, serverURL string) []byte {
	if len(serverURL) == 0 {
		return doc
	}
	// Unmarshal full doc
	var full map[string]any
	if err := yaml.Unmarshal(doc, &full); err != nil {
		return doc
	}
	full["servers"] = []map[string]any{
		{
			"url":         serverURL,
			"description": "This instance",
		},
	}
	res, err := yaml.Marshal(full)
	if err != nil {
		return doc
	}
	return res
}

// ensureBasicAuthSecurity injects a HTTP Basic security scheme into the
// OpenAPI document, if not already present.
func ensureBasicAuthSecurity(doc []byte) []byte {
	var full map[string]any
	if err := yaml.Unmarshal(doc, &full); err != nil {
		return doc
	}
	components, _ := full["components"].(map[string]any)
	if components == nil {
		components = map[string]any{}
		full["components"] = components
	}
	securitySchemes, _ := components["securitySchemes"].(map[string]any)
	if securitySchemes == nil {
		securitySchemes = map[string]any{}
		components["securitySchemes"] = securitySchemes
	}
	if _, exists := securitySchemes["basicAuth"]; exists {
		return doc
	}
	securitySchemes["basicAuth"] = map[string]any{
		"type":   "http",
		"scheme": "basic",
	}
	res, err := yaml.Marshal(full)
	if err != nil {
		return doc
	}
	return res
}
