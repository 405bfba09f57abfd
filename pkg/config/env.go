package config

const EnvPrefix = "BISTRO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	CatalogSourceHTTP = "http"
	CatalogSourceDB   = "db"
)

const (
	EnvAppEnv   = "BISTRO_APP_ENV"
	EnvPort     = "BISTRO_APP_PORT"
	EnvLogLevel = "BISTRO_LOG_LEVEL"

	EnvDBDSN  = "BISTRO_DB_DSN"
	EnvDBHost = "BISTRO_DB_HOST"
	EnvDBUser = "BISTRO_DB_USER"
	EnvDBName = "BISTRO_DB_NAME"

	EnvRedisURL = "BISTRO_REDIS_URL"

	EnvCatalogSource  = "BISTRO_CATALOG_SOURCE"
	EnvCatalogBaseURL = "BISTRO_CATALOG_BASE_URL"

	EnvOrdersBaseURL = "BISTRO_ORDERS_BASE_URL"

	EnvSessionCartTTL     = "BISTRO_SESSION_CART_TTL"
	EnvSessionTrackingTTL = "BISTRO_SESSION_TRACKING_TTL"
)

var splitDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
