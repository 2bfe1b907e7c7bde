// Package backoffice wires the HTTP server of the back office: the API
// routes, the shared middlewares and TLS handling.
package backoffice

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"

	"github.com/brightpath-it/backoffice/api"
	"github.com/brightpath-it/backoffice/storage/model"
)

// APIPrefix is the path all API routes are mounted under
const APIPrefix = "/api"

// FiberServerConfig is the fiber.Config that is used to init the http fiber.App
var FiberServerConfig = fiber.Config{
	ReadTimeout:    3 * time.Second,
	WriteTimeout:   20 * time.Second,
	IdleTimeout:    150 * time.Second,
	ReadBufferSize: 8192,
	BodyLimit:      1 << 20,
	ErrorHandler:   handleError,
	Network:        "tcp",
}

// BackOffice is the http server of the back office
type BackOffice struct {
	server     *fiber.App
	serverConf ServerConf
}

// New creates a new BackOffice serving the API for the passed storages.
// Access logs are written to accessLog; nil disables them.
func New(
	serverConf ServerConf, storages model.Backends, opts api.Options, accessLog io.Writer,
) (*BackOffice, error) {
	if tps := serverConf.TrustedProxies; len(tps) > 0 {
		FiberServerConfig.TrustedProxies = serverConf.TrustedProxies
		FiberServerConfig.EnableTrustedProxyCheck = true
	}
	FiberServerConfig.ProxyHeader = serverConf.ForwardedIPHeader
	server := fiber.New(FiberServerConfig)
	server.Use(recover.New())
	server.Use(compress.New())
	if accessLog != nil {
		server.Use(logger.New(logger.Config{Output: accessLog}))
	}
	server.Use(requestid.New())
	corsConf := cors.Config{
		AllowMethods: strings.Join(
			[]string{
				fiber.MethodGet,
				fiber.MethodPost,
				fiber.MethodPut,
				fiber.MethodDelete,
			}, ",",
		),
	}
	if len(serverConf.AllowedOrigins) > 0 {
		corsConf.AllowOrigins = strings.Join(serverConf.AllowedOrigins, ",")
		corsConf.AllowCredentials = true
	}
	server.Use(cors.New(corsConf))

	if opts.ServerURL == "" && serverConf.ExternalURL != "" {
		opts.ServerURL, _ = url.JoinPath(serverConf.ExternalURL, APIPrefix)
	}
	if err := api.Register(server.Group(APIPrefix), storages, opts); err != nil {
		return nil, err
	}
	return &BackOffice{
		server:     server,
		serverConf: serverConf,
	}, nil
}

// App returns the underlying fiber.App
func (b BackOffice) App() *fiber.App {
	return b.server
}

// HttpHandlerFunc returns an http.HandlerFunc for serving all the necessary endpoints
func (b BackOffice) HttpHandlerFunc() http.HandlerFunc {
	return adaptor.FiberApp(b.server)
}

// Listen starts an http server at the specific address for serving all the
// necessary endpoints
func (b BackOffice) Listen(addr string) error {
	return b.server.Listen(addr)
}

// Shutdown gracefully stops the server
func (b BackOffice) Shutdown() error {
	return b.server.Shutdown()
}

// Start starts the server as configured and blocks; TLS is used if enabled,
// optionally with a redirect server for plain http
func (b BackOffice) Start() {
	conf := b.serverConf
	if !conf.TLS.Enabled {
		log.WithField("port", conf.Port).Info("TLS is disabled starting http server")
		log.WithError(b.server.Listen(fmt.Sprintf("%s:%d", conf.IPListen, conf.Port))).Fatal()
	}
	// TLS enabled
	if conf.TLS.RedirectHTTP {
		httpServer := fiber.New(FiberServerConfig)
		httpServer.All(
			"*", func(ctx *fiber.Ctx) error {
				//goland:noinspection HttpUrlsUsage
				return ctx.Redirect(
					strings.Replace(ctx.Request().URI().String(), "http://", "https://", 1),
					fiber.StatusPermanentRedirect,
				)
			},
		)
		log.Info("TLS and http redirect enabled, starting redirect server on port 80")
		go func() {
			log.WithError(httpServer.Listen(conf.IPListen + ":80")).Fatal()
		}()
	}
	time.Sleep(time.Millisecond) // This is just for a more pretty output with the tls header printed after the http one
	log.Info("TLS enabled, starting https server on port 443")
	log.WithError(b.server.ListenTLS(conf.IPListen+":443", conf.TLS.Cert, conf.TLS.Key)).Fatal()
}
