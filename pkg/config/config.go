package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cache         CacheConfig
	Billing       BillingConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MECHSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"MECHSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MECHSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MECHSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MECHSHOP_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MECHSHOP_DB_DSN"`
	Driver string `envconfig:"MECHSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MECHSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"MECHSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MECHSHOP_DB_USER"`
	LegacyPassword string `envconfig:"MECHSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"MECHSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"MECHSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MECHSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MECHSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MECHSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MECHSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MECHSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MECHSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"MECHSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"MECHSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MECHSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MECHSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MECHSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MECHSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MECHSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MECHSHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MECHSHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MECHSHOP_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MECHSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MECHSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MECHSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MECHSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MECHSHOP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"MECHSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"MECHSHOP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"10"`
	LoginIPLimit    int           `envconfig:"MECHSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"30"`
}

type CacheConfig struct {
	TTL time.Duration `envconfig:"MECHSHOP_CACHE_TTL" default:"5m"`
}

// BillingConfig carries the knobs for labor cost derivation. LaborHours is the
// flat number of hours billed per assigned mechanic set when totalling a ticket.
type BillingConfig struct {
	LaborHours float64 `envconfig:"MECHSHOP_BILLING_LABOR_HOURS" default:"2"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MECHSHOP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MECHSHOP_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MECHSHOP_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"MECHSHOP_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"MECHSHOP_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	TicketTopic        string `envconfig:"MECHSHOP_PUBSUB_TICKET_TOPIC" default:"mechshop-ticket-events"`
	TicketSubscription string `envconfig:"MECHSHOP_PUBSUB_TICKET_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"MECHSHOP_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"MECHSHOP_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"MECHSHOP_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
