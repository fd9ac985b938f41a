package config

const EnvPrefix = "DEADSTOCK"

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv             = "DEADSTOCK_APP_ENV"
	EnvPort               = "DEADSTOCK_APP_PORT"
	EnvDBDSN              = "DEADSTOCK_DB_DSN"
	EnvDBHost             = "DEADSTOCK_DB_HOST"
	EnvDBUser             = "DEADSTOCK_DB_USER"
	EnvDBName             = "DEADSTOCK_DB_NAME"
	EnvRedisURL           = "DEADSTOCK_REDIS_URL"
	EnvJWTSecret          = "DEADSTOCK_JWT_SECRET"
	EnvUseSQLite          = "DEADSTOCK_USE_SQLITE"
	EnvWebhookOfferURL    = "DEADSTOCK_WEBHOOK_OFFER_URL"
	EnvWebhookRequestURL  = "DEADSTOCK_WEBHOOK_REQUEST_URL"
	EnvWebhookRegisterURL = "DEADSTOCK_WEBHOOK_REGISTER_URL"
	EnvWebhookProfileURL  = "DEADSTOCK_WEBHOOK_PROFILE_URL"
	EnvNearExpiryDays     = "DEADSTOCK_NEAR_EXPIRY_DAYS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
