package config

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	NetworkLocal      = "local"
	NetworkProduction = "ic"
)

// Config holds runtime settings for the workspace client.
//
// Fields:
//   - Network: "local" (development replica) or "ic" (production).
//   - CanisterID: address of the workspace service. Empty is allowed here;
//     the gateway refuses to start without it.
//   - LocalEndpoint / ProductionEndpoint: host:port dialed per network.
//   - LocalIdentityProvider / ProductionIdentityProvider: login URLs per network.
//   - KeystoreDir: where the sealed identity key is kept.
//   - ChunkSize: upload chunk payload limit in bytes.
//   - CallTimeout, ProviderTimeout, OnlineCheckInterval: time.Duration values.
type Config struct {
	Network                    string        `env:"DFX_NETWORK" validate:"oneof=local ic"`
	CanisterID                 string        `env:"CANISTER_ID_ZERO_OS_BACKEND"`
	LocalEndpoint              string        `env:"ZEROOS_LOCAL_ENDPOINT" validate:"required"`
	ProductionEndpoint         string        `env:"ZEROOS_PRODUCTION_ENDPOINT" validate:"required"`
	LocalIdentityProvider      string        `env:"ZEROOS_LOCAL_IDENTITY_PROVIDER" validate:"required,url"`
	ProductionIdentityProvider string        `env:"ZEROOS_IDENTITY_PROVIDER" validate:"required,url"`
	KeystoreDir                string        `env:"ZEROOS_KEYSTORE_DIR" validate:"required"`
	ChunkSize                  int           `env:"ZEROOS_CHUNK_SIZE" validate:"gt=0"`
	CallTimeout                time.Duration `env:"ZEROOS_CALL_TIMEOUT" validate:"gt=0"`
	ProviderTimeout            time.Duration `env:"ZEROOS_PROVIDER_TIMEOUT" validate:"gt=0"`
	OnlineCheckInterval        time.Duration `env:"ZEROOS_ONLINE_CHECK_INTERVAL" validate:"gt=0"`
	LogLevel                   string        `env:"ZEROOS_LOG_LEVEL" validate:"oneof=debug info warn error"`
	S3                         S3Config
}

// S3Config configures s3:// artifact sources and sinks. Empty fields fall
// back to the AWS SDK default chain.
type S3Config struct {
	Endpoint     string `env:"ZEROOS_S3_ENDPOINT"`
	Region       string `env:"AWS_REGION"`
	AccessKey    string `env:"AWS_ACCESS_KEY_ID"`
	SecretKey    string `env:"AWS_SECRET_ACCESS_KEY"`
	UsePathStyle bool   `env:"ZEROOS_S3_PATH_STYLE"`
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.Network = NetworkLocal
	c.LocalEndpoint = "127.0.0.1:4943"
	c.ProductionEndpoint = "ic0.app:443"
	c.LocalIdentityProvider = "http://rdmx6-jaaaa-aaaaa-aaadq-cai.localhost:4943"
	c.ProductionIdentityProvider = "https://identity.ic0.app"
	c.KeystoreDir = ".zeroos"
	c.ChunkSize = 1 << 20
	c.CallTimeout = 30 * time.Second
	c.ProviderTimeout = 10 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
	c.LogLevel = "info"
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

// IsProduction reports whether the production network is selected.
func (c *Config) IsProduction() bool {
	return c.Network == NetworkProduction
}

// Endpoint returns the service endpoint for the selected network.
func (c *Config) Endpoint() string {
	if c.IsProduction() {
		return c.ProductionEndpoint
	}
	return c.LocalEndpoint
}

// IdentityProviderURL returns the login URL for the selected network.
func (c *Config) IdentityProviderURL() string {
	if c.IsProduction() {
		return c.ProductionIdentityProvider
	}
	return c.LocalIdentityProvider
}

// LoadConfig applies defaults, then the config file (-c/-config), then
// .env and process environment, then command-line flags. Later sources take
// precedence. It panics on unreadable or invalid input.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg, dotEnvFile)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
