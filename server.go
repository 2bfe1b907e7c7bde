package backoffice

// ServerConf configures the http server of the back office
type ServerConf struct {
	IPListen          string   `yaml:"ip_listen"`
	Port              int      `yaml:"port"`
	TLS               tlsConf  `yaml:"tls"`
	TrustedProxies    []string `yaml:"trusted_proxies"`
	ForwardedIPHeader string   `yaml:"forwarded_ip_header"`
	// AllowedOrigins lists the origins of the website that may call the API
	// from the browser; empty allows all origins
	AllowedOrigins []string `yaml:"allowed_origins"`
	// ExternalURL is the public base url of this instance
	ExternalURL string `yaml:"external_url"`
}

type tlsConf struct {
	Enabled      bool   `yaml:"enabled"`
	RedirectHTTP bool   `yaml:"redirect_http"`
	Cert         string `yaml:"cert"`
	Key          string `yaml:"key"`
}
