package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "vanguard"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Storage driver names accepted by StorageConfig.Driver.
const (
	StorageDriverFile   = "file"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Storage StorageConfig
	Redis   RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VANGUARD_APP_ENV" default:"dev"`
	Port         string `envconfig:"VANGUARD_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"VANGUARD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VANGUARD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points the gateway at the storefront REST backend.
type BackendConfig struct {
	BaseURL       string        `envconfig:"VANGUARD_BACKEND_BASE_URL" required:"true"`
	ClientTimeout time.Duration `envconfig:"VANGUARD_BACKEND_CLIENT_TIMEOUT" default:"10s"`
}

// StorageConfig selects the durable key-value store holding carts and tokens.
type StorageConfig struct {
	Driver string `envconfig:"VANGUARD_STORAGE_DRIVER" default:"file"`
	Path   string `envconfig:"VANGUARD_STORAGE_PATH" default:"data/profiles.json"`
}

func (s StorageConfig) validate() error {
	switch s.Driver {
	case StorageDriverFile, StorageDriverRedis, StorageDriverMemory:
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q", s.Driver)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"VANGUARD_REDIS_URL"`
	Address      string        `envconfig:"VANGUARD_REDIS_ADDR"`
	Password     string        `envconfig:"VANGUARD_REDIS_PASSWORD"`
	DB           int           `envconfig:"VANGUARD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VANGUARD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VANGUARD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VANGUARD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VANGUARD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VANGUARD_REDIS_WRITE_TIMEOUT" default:"5s"`
}
