package config

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	GCP     GCPConfig
	GCS     GCSConfig
	PubSub  PubSubConfig
	Minting MintingConfig
	Webhook WebhookConfig

	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.DB.Isolation(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VAULTKEEPER_APP_ENV" required:"true"`
	Port         string `envconfig:"VAULTKEEPER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VAULTKEEPER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VAULTKEEPER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VAULTKEEPER_DB_DSN"`
	Driver string `envconfig:"VAULTKEEPER_DB_DRIVER" default:"postgres"`

	// IsolationLevel selects the transaction isolation used by the store's
	// transaction runner. Write-heavy deployments run serializable; others
	// may relax to repeatable_read.
	IsolationLevel string `envconfig:"VAULTKEEPER_DB_ISOLATION_LEVEL" default:"serializable"`

	LegacyHost     string `envconfig:"VAULTKEEPER_DB_HOST"`
	LegacyPort     int    `envconfig:"VAULTKEEPER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VAULTKEEPER_DB_USER"`
	LegacyPassword string `envconfig:"VAULTKEEPER_DB_PASSWORD"`
	LegacyName     string `envconfig:"VAULTKEEPER_DB_NAME"`
	LegacySSLMode  string `envconfig:"VAULTKEEPER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VAULTKEEPER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VAULTKEEPER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VAULTKEEPER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VAULTKEEPER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// Isolation maps the configured isolation level name onto sql.IsolationLevel.
func (db DBConfig) Isolation() (sql.IsolationLevel, error) {
	switch strings.ToLower(strings.TrimSpace(db.IsolationLevel)) {
	case "", "serializable":
		return sql.LevelSerializable, nil
	case "repeatable_read":
		return sql.LevelRepeatableRead, nil
	default:
		return 0, fmt.Errorf("isolation level must be %q or %q, got %q", "serializable", "repeatable_read", db.IsolationLevel)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"VAULTKEEPER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VAULTKEEPER_REDIS_ADDR"`
	Password     string        `envconfig:"VAULTKEEPER_REDIS_PASSWORD"`
	DB           int           `envconfig:"VAULTKEEPER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VAULTKEEPER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VAULTKEEPER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VAULTKEEPER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VAULTKEEPER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VAULTKEEPER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VAULTKEEPER_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VAULTKEEPER_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"VAULTKEEPER_JWT_EXPIRATION_MINUTES" default:"60"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"VAULTKEEPER_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"VAULTKEEPER_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"VAULTKEEPER_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"VAULTKEEPER_GCS_BUCKET_NAME" required:"true"`
}

type PubSubConfig struct {
	MintEventsTopic        string `envconfig:"VAULTKEEPER_PUBSUB_MINT_EVENTS_TOPIC" default:"vk-mint-events"`
	MintEventsSubscription string `envconfig:"VAULTKEEPER_PUBSUB_MINT_EVENTS_SUBSCRIPTION" required:"true"`
}

type MintingConfig struct {
	BaseURL     string        `envconfig:"VAULTKEEPER_MINTING_BASE_URL" required:"true"`
	APIKey      string        `envconfig:"VAULTKEEPER_MINTING_API_KEY" required:"true"`
	HTTPTimeout time.Duration `envconfig:"VAULTKEEPER_MINTING_HTTP_TIMEOUT" default:"15s"`
}

type WebhookConfig struct {
	IdempotencyTTL time.Duration `envconfig:"VAULTKEEPER_WEBHOOK_IDEMPOTENCY_TTL" default:"168h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VAULTKEEPER_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
