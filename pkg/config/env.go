package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "VAULTKEEPER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv           = "VAULTKEEPER_APP_ENV"
	EnvPort             = "VAULTKEEPER_APP_PORT"
	EnvDBDSN            = "VAULTKEEPER_DB_DSN"
	EnvDBHost           = "VAULTKEEPER_DB_HOST"
	EnvDBUser           = "VAULTKEEPER_DB_USER"
	EnvDBName           = "VAULTKEEPER_DB_NAME"
	EnvDBIsolation      = "VAULTKEEPER_DB_ISOLATION_LEVEL"
	EnvRedisURL         = "VAULTKEEPER_REDIS_URL"
	EnvJWTSecret        = "VAULTKEEPER_JWT_SECRET"
	EnvJWTIssuer        = "VAULTKEEPER_JWT_ISSUER"
	EnvGCPProjectID     = "VAULTKEEPER_GCP_PROJECT_ID"
	EnvGCSBucket        = "VAULTKEEPER_GCS_BUCKET_NAME"
	EnvPubSubMintTopic  = "VAULTKEEPER_PUBSUB_MINT_EVENTS_TOPIC"
	EnvPubSubMintSub    = "VAULTKEEPER_PUBSUB_MINT_EVENTS_SUBSCRIPTION"
	EnvMintingBaseURL   = "VAULTKEEPER_MINTING_BASE_URL"
	EnvMintingAPIKey    = "VAULTKEEPER_MINTING_API_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
