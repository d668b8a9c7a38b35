package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names.
const EnvPrefix = "POKEDEX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Env var names shared with tests.
const (
	EnvAppEnv   = "POKEDEX_APP_ENV"
	EnvPort     = "POKEDEX_APP_PORT"
	EnvDBDriver = "POKEDEX_DB_DRIVER"
	EnvDBDSN    = "POKEDEX_DB_DSN"
	EnvRedisURL = "POKEDEX_REDIS_URL"
	EnvAPIBase  = "POKEDEX_POKEAPI_BASE_URL"
)
