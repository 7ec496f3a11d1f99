package config

const (
	EnvPrefix = "CATALOG"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv      = "CATALOG_APP_ENV"
	EnvPort        = "CATALOG_APP_PORT"
	EnvLogLevel    = "CATALOG_LOG_LEVEL"
	EnvLogFormat   = "CATALOG_LOG_FORMAT"
	EnvServiceKind = "CATALOG_SERVICE_KIND"

	EnvDBDSN    = "CATALOG_DB_DSN"
	EnvDBDriver = "CATALOG_DB_DRIVER"
	EnvDBHost   = "CATALOG_DB_HOST"
	EnvDBUser   = "CATALOG_DB_USER"
	EnvDBName   = "CATALOG_DB_NAME"

	EnvRedisURL = "CATALOG_REDIS_URL"

	EnvUpstreamBaseURL = "CATALOG_UPSTREAM_BASE_URL"
	EnvUpstreamTimeout = "CATALOG_UPSTREAM_TIMEOUT"

	EnvSyncHours      = "CATALOG_SYNC_HOURS"
	EnvSyncRunOnStart = "CATALOG_SYNC_RUN_ON_START"
	EnvSyncRunTimeout = "CATALOG_SYNC_RUN_TIMEOUT"
	EnvSyncLockTTL    = "CATALOG_SYNC_LOCK_TTL"

	EnvAutoMigrate = "CATALOG_AUTO_MIGRATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
