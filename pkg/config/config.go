package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Webhooks     WebhookConfig
	Marketplace  MarketplaceConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Cron         CronConfig
	IDs          IDConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Webhooks.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"DEADSTOCK_APP_ENV" required:"true"`
	Port         string   `envconfig:"DEADSTOCK_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"DEADSTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"DEADSTOCK_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"DEADSTOCK_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"DEADSTOCK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"DEADSTOCK_DB_DSN"`
	Driver string `envconfig:"DEADSTOCK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DEADSTOCK_DB_HOST"`
	LegacyPort     int    `envconfig:"DEADSTOCK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DEADSTOCK_DB_USER"`
	LegacyPassword string `envconfig:"DEADSTOCK_DB_PASSWORD"`
	LegacyName     string `envconfig:"DEADSTOCK_DB_NAME"`
	LegacySSLMode  string `envconfig:"DEADSTOCK_DB_SSLMODE" default:"require"`

	MaxOpenConns    int           `envconfig:"DEADSTOCK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DEADSTOCK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DEADSTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DEADSTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DEADSTOCK_REDIS_URL"`
	Address      string        `envconfig:"DEADSTOCK_REDIS_ADDR"`
	Password     string        `envconfig:"DEADSTOCK_REDIS_PASSWORD"`
	DB           int           `envconfig:"DEADSTOCK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DEADSTOCK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DEADSTOCK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DEADSTOCK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DEADSTOCK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DEADSTOCK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DEADSTOCK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DEADSTOCK_JWT_ISSUER" default:"deadstock"`
	SessionTTLMinutes int    `envconfig:"DEADSTOCK_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the session lifetime configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DEADSTOCK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DEADSTOCK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DEADSTOCK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DEADSTOCK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DEADSTOCK_ARGON_KEY_LEN" default:"32"`
}

// WebhookConfig points at the external automation endpoints that own every write.
type WebhookConfig struct {
	OfferURL    string        `envconfig:"DEADSTOCK_WEBHOOK_OFFER_URL" required:"true"`
	RequestURL  string        `envconfig:"DEADSTOCK_WEBHOOK_REQUEST_URL" required:"true"`
	RegisterURL string        `envconfig:"DEADSTOCK_WEBHOOK_REGISTER_URL" required:"true"`
	ProfileURL  string        `envconfig:"DEADSTOCK_WEBHOOK_PROFILE_URL" required:"true"`
	Timeout     time.Duration `envconfig:"DEADSTOCK_WEBHOOK_TIMEOUT" default:"15s"`
}

func (w WebhookConfig) validate() error {
	for name, raw := range map[string]string{
		EnvWebhookOfferURL:    w.OfferURL,
		EnvWebhookRequestURL:  w.RequestURL,
		EnvWebhookRegisterURL: w.RegisterURL,
		EnvWebhookProfileURL:  w.ProfileURL,
	} {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute url", name)
		}
	}
	return nil
}

type MarketplaceConfig struct {
	NearExpiryDays   int `envconfig:"DEADSTOCK_NEAR_EXPIRY_DAYS" default:"90"`
	ActivityWindow   int `envconfig:"DEADSTOCK_ACTIVITY_WINDOW" default:"5"`
	DrugSearchMinLen int `envconfig:"DEADSTOCK_DRUG_SEARCH_MIN_LEN" default:"3"`
	DrugSearchLimit  int `envconfig:"DEADSTOCK_DRUG_SEARCH_LIMIT" default:"10"`
}

// NearExpiryWindow converts the configured day count into a duration.
func (m MarketplaceConfig) NearExpiryWindow() time.Duration {
	if m.NearExpiryDays <= 0 {
		return 0
	}
	return time.Duration(m.NearExpiryDays) * 24 * time.Hour
}

type RateLimitConfig struct {
	SubmitWindow       time.Duration `envconfig:"DEADSTOCK_RATE_LIMIT_SUBMIT_WINDOW" default:"1m"`
	SubmitLimit        int           `envconfig:"DEADSTOCK_RATE_LIMIT_SUBMIT_LIMIT" default:"30"`
	RegisterIPLimit    int           `envconfig:"DEADSTOCK_RATE_LIMIT_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"DEADSTOCK_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DEADSTOCK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DEADSTOCK_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"DEADSTOCK_CRON_INTERVAL" default:"6h"`
	LockTTL  time.Duration `envconfig:"DEADSTOCK_CRON_LOCK_TTL" default:"1h"`
}

type IDConfig struct {
	SnowflakeNode int64 `envconfig:"DEADSTOCK_SNOWFLAKE_NODE" default:"1"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DBDriverSQLite
		if db.DSN == "" {
			db.DSN = "file:deadstock.db?cache=shared"
		}
		return nil
	}
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
