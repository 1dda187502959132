package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	configDirName  = ".custodia"
	configFileName = "custodia.conf"

	// ConfigPathEnvVar overrides the default config file location. Used by
	// tests and container deployments.
	ConfigPathEnvVar = "CUSTODIA_CONFIG"
)

// Config captures application runtime configuration loaded from the config
// file in the per-user config directory.
type Config struct {
	AppName  string `env:"CUSTODIA_APP_NAME, default=Custodia"`
	LogLevel string `env:"CUSTODIA_LOG_LEVEL, default=info"`

	Db       DbConfig
	Server   ServerConfig
	Terminus TerminusConfig
	Account  AccountConfig
	Beacon   BeaconConfig
	Redis    RedisConfig

	SessionTTL     time.Duration `env:"CUSTODIA_SESSION_TTL, default=24h"`
	ShutdownPeriod time.Duration `env:"CUSTODIA_SHUTDOWN_TIMEOUT, default=10s"`
}

// DbConfig holds the session secret and the connection string for the
// relational store.
type DbConfig struct {
	SecretKey string `env:"CUSTODIA_DB_SECRET_KEY"`
	URL       string `env:"CUSTODIA_DATABASE_URL"`
}

// ServerConfig holds the HTTP bind coordinates.
type ServerConfig struct {
	Host string `env:"CUSTODIA_SERVER_HOST, default=0.0.0.0"`
	Port int    `env:"CUSTODIA_SERVER_PORT, default=8080"`
}

// TerminusConfig holds the endpoint of the remote terminus ledger service.
type TerminusConfig struct {
	RPCHost string `env:"CUSTODIA_TERMINUS_RPC_HOST, default=localhost"`
	RPCPort int    `env:"CUSTODIA_TERMINUS_RPC_PORT, default=9000"`
}

// AccountConfig governs account provisioning: the cap and starting balance
// requested from terminus and the per-user account limit enforced locally.
type AccountConfig struct {
	CapMsats   int64 `env:"CUSTODIA_ACCOUNT_CAP_MSATS, default=1000000000"`
	StartMsats int64 `env:"CUSTODIA_ACCOUNT_START_MSATS, default=0"`
	PerUser    int   `env:"CUSTODIA_ACCOUNTS_PER_USER, default=3"`
}

// BeaconConfig holds the relay location advertised in generated beacons.
type BeaconConfig struct {
	RelayLocation string `env:"CUSTODIA_BEACON_RELAY_LOCATION"`
}

// RedisConfig holds the session/rate-limit store connection string.
type RedisConfig struct {
	URL string `env:"CUSTODIA_REDIS_URL"`
}

// Path returns the config file location: the CUSTODIA_CONFIG override when
// set, otherwise ~/.custodia/custodia.conf.
func Path() (string, error) {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Load reads the config file into the environment and decodes it into a
// Config. A missing config file is a fatal error; values already present in
// the environment take precedence over the file.
func Load(ctx context.Context) (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}

	if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("could not find %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Db.SecretKey == "" {
		return Config{}, fmt.Errorf("CUSTODIA_DB_SECRET_KEY must be set")
	}
	if cfg.Db.URL == "" {
		return Config{}, fmt.Errorf("CUSTODIA_DATABASE_URL must be set")
	}
	if cfg.Redis.URL == "" {
		return Config{}, fmt.Errorf("CUSTODIA_REDIS_URL must be set")
	}
	if cfg.Beacon.RelayLocation == "" {
		return Config{}, fmt.Errorf("CUSTODIA_BEACON_RELAY_LOCATION must be set")
	}
	if cfg.Account.PerUser <= 0 {
		return Config{}, fmt.Errorf("CUSTODIA_ACCOUNTS_PER_USER must be positive")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
