package config

// EnvPrefix is intentionally empty: every variable carries the full
// PHARMACY_ prefix in its envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "PHARMACY_APP_ENV"
	EnvPort     = "PHARMACY_APP_PORT"
	EnvDBDSN    = "PHARMACY_DB_DSN"
	EnvDBHost   = "PHARMACY_DB_HOST"
	EnvDBUser   = "PHARMACY_DB_USER"
	EnvDBName   = "PHARMACY_DB_NAME"
	EnvRedisURL = "PHARMACY_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
