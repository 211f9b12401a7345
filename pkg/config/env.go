package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "MECHSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names shared between Load, tests, and ops tooling.
const (
	EnvAppEnv     = "MECHSHOP_APP_ENV"
	EnvPort       = "MECHSHOP_APP_PORT"
	EnvDBDSN      = "MECHSHOP_DB_DSN"
	EnvDBHost     = "MECHSHOP_DB_HOST"
	EnvDBUser     = "MECHSHOP_DB_USER"
	EnvDBName     = "MECHSHOP_DB_NAME"
	EnvRedisURL   = "MECHSHOP_REDIS_URL"
	EnvJWTSecret  = "MECHSHOP_JWT_SECRET"
	EnvJWTIssuer  = "MECHSHOP_JWT_ISSUER"
	EnvJWTExpMins = "MECHSHOP_JWT_EXPIRATION_MINUTES"
	EnvLaborHours = "MECHSHOP_BILLING_LABOR_HOURS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
