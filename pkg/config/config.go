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
	DB           DBConfig
	Redis        RedisConfig
	Catalog      CatalogConfig
	Orders       OrdersConfig
	Session      SessionConfig
	CORS         CORSConfig
	I18N         I18NConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Catalog.validate(); err != nil {
		return nil, err
	}
	if cfg.Catalog.UsesDatabase() {
		if err := cfg.DB.EnsureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BISTRO_APP_ENV" required:"true"`
	Port         string `envconfig:"BISTRO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BISTRO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BISTRO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BISTRO_DB_DSN"`
	Driver string `envconfig:"BISTRO_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BISTRO_DB_HOST"`
	Port     int    `envconfig:"BISTRO_DB_PORT" default:"5432"`
	User     string `envconfig:"BISTRO_DB_USER"`
	Password string `envconfig:"BISTRO_DB_PASSWORD"`
	Name     string `envconfig:"BISTRO_DB_NAME"`
	SSLMode  string `envconfig:"BISTRO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BISTRO_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"BISTRO_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"BISTRO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BISTRO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BISTRO_REDIS_URL"`
	Address      string        `envconfig:"BISTRO_REDIS_ADDR"`
	Password     string        `envconfig:"BISTRO_REDIS_PASSWORD"`
	DB           int           `envconfig:"BISTRO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BISTRO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BISTRO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BISTRO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BISTRO_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"BISTRO_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// CatalogConfig selects where menu data comes from.
type CatalogConfig struct {
	Source  string        `envconfig:"BISTRO_CATALOG_SOURCE" default:"http"`
	BaseURL string        `envconfig:"BISTRO_CATALOG_BASE_URL"`
	Timeout time.Duration `envconfig:"BISTRO_CATALOG_TIMEOUT" default:"10s"`
}

func (c CatalogConfig) UsesDatabase() bool {
	return strings.EqualFold(strings.TrimSpace(c.Source), CatalogSourceDB)
}

func (c CatalogConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Source)) {
	case CatalogSourceHTTP:
		if c.BaseURL == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvCatalogBaseURL, EnvCatalogSource, CatalogSourceHTTP)
		}
		return nil
	case CatalogSourceDB:
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvCatalogSource, c.Source)
	}
}

type OrdersConfig struct {
	BaseURL string        `envconfig:"BISTRO_ORDERS_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"BISTRO_ORDERS_TIMEOUT" default:"10s"`
}

// SessionConfig holds the lifetimes of the two persistence tiers.
type SessionConfig struct {
	CartTTL      time.Duration `envconfig:"BISTRO_SESSION_CART_TTL" default:"12h"`
	TrackingTTL  time.Duration `envconfig:"BISTRO_SESSION_TRACKING_TTL" default:"720h"`
	CookieName   string        `envconfig:"BISTRO_SESSION_COOKIE_NAME" default:"bh_session"`
	CookieSecure bool          `envconfig:"BISTRO_SESSION_COOKIE_SECURE" default:"false"`

	IdleTimeout     time.Duration `envconfig:"BISTRO_SESSION_IDLE_TIMEOUT" default:"30m"`
	JanitorInterval time.Duration `envconfig:"BISTRO_SESSION_JANITOR_INTERVAL" default:"5m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"BISTRO_CORS_ALLOWED_ORIGINS" default:"*"`
}

// I18NConfig points at an optional JSON dictionary of display names.
type I18NConfig struct {
	DictionaryPath string `envconfig:"BISTRO_I18N_DICTIONARY"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BISTRO_AUTO_MIGRATE" default:"false"`
}

// EnsureDSN builds the DSN from the split BISTRO_DB_* settings when it is not set directly.
func (db *DBConfig) EnsureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range splitDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
