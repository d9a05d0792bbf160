package config

// Environment variable names used outside envconfig tags, mostly in
// error messages and tests.
const (
	EnvPrefix = "SHOPSTACK"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv     = "SHOPSTACK_APP_ENV"
	EnvPort       = "SHOPSTACK_APP_PORT"
	EnvDBDSN      = "SHOPSTACK_DB_DSN"
	EnvDBHost     = "SHOPSTACK_DB_HOST"
	EnvDBUser     = "SHOPSTACK_DB_USER"
	EnvDBName     = "SHOPSTACK_DB_NAME"
	EnvRedisURL   = "SHOPSTACK_REDIS_URL"
	EnvJWTSecret  = "SHOPSTACK_JWT_SECRET"
	EnvJWTIssuer  = "SHOPSTACK_JWT_ISSUER"
	EnvJWTExpMins = "SHOPSTACK_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
