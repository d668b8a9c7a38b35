package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	PokeAPI      PokeAPIConfig
	Sync         SyncConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"POKEDEX_APP_ENV" required:"true"`
	Port         string `envconfig:"POKEDEX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"POKEDEX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POKEDEX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type DBConfig struct {
	Driver string `envconfig:"POKEDEX_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"POKEDEX_DB_DSN" default:"pokedex.db"`

	MaxOpenConns    int           `envconfig:"POKEDEX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POKEDEX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POKEDEX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POKEDEX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch db.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported db driver %q (want %s or %s)", db.Driver, DriverSQLite, DriverPostgres)
	}
	if db.DSN == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	return nil
}

type RedisConfig struct {
	// URL is optional: without it the PokeAPI detail cache is disabled.
	URL          string        `envconfig:"POKEDEX_REDIS_URL"`
	Address      string        `envconfig:"POKEDEX_REDIS_ADDR"`
	Password     string        `envconfig:"POKEDEX_REDIS_PASSWORD"`
	DB           int           `envconfig:"POKEDEX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POKEDEX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POKEDEX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POKEDEX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POKEDEX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POKEDEX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type PokeAPIConfig struct {
	BaseURL        string        `envconfig:"POKEDEX_POKEAPI_BASE_URL" default:"https://pokeapi.co/api/v2"`
	Timeout        time.Duration `envconfig:"POKEDEX_POKEAPI_TIMEOUT" default:"10s"`
	DetailCacheTTL time.Duration `envconfig:"POKEDEX_POKEAPI_DETAIL_CACHE_TTL" default:"30m"`
}

type SyncConfig struct {
	PageSize int `envconfig:"POKEDEX_SYNC_PAGE_SIZE" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"POKEDEX_AUTO_MIGRATE" default:"false"`
}
