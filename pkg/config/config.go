package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "CISECO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Shopify      ShopifyConfig
	Provisioning ProvisioningConfig
	Cleanup      CleanupConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CISECO_APP_ENV" required:"true"`
	Port         string `envconfig:"CISECO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CISECO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CISECO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CISECO_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"CISECO_DB_DSN"`
	Driver string `envconfig:"CISECO_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CISECO_DB_HOST"`
	Port     int    `envconfig:"CISECO_DB_PORT" default:"5432"`
	User     string `envconfig:"CISECO_DB_USER"`
	Password string `envconfig:"CISECO_DB_PASSWORD"`
	Name     string `envconfig:"CISECO_DB_NAME"`
	SSLMode  string `envconfig:"CISECO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CISECO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CISECO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CISECO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CISECO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CISECO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CISECO_REDIS_ADDR"`
	Password     string        `envconfig:"CISECO_REDIS_PASSWORD"`
	DB           int           `envconfig:"CISECO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CISECO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CISECO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CISECO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CISECO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CISECO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ShopifyConfig wires both Admin (variant provisioning) and Storefront (cart)
// GraphQL endpoints of the shop.
type ShopifyConfig struct {
	StoreDomain           string        `envconfig:"CISECO_SHOPIFY_STORE_DOMAIN" required:"true"`
	AdminAccessToken      string        `envconfig:"CISECO_SHOPIFY_ADMIN_ACCESS_TOKEN" required:"true"`
	AdminAPIVersion       string        `envconfig:"CISECO_SHOPIFY_ADMIN_API_VERSION" default:"2024-10"`
	StorefrontAccessToken string        `envconfig:"CISECO_SHOPIFY_STOREFRONT_ACCESS_TOKEN" required:"true"`
	StorefrontAPIVersion  string        `envconfig:"CISECO_SHOPIFY_STOREFRONT_API_VERSION" default:"2024-10"`
	RequestTimeout        time.Duration `envconfig:"CISECO_SHOPIFY_REQUEST_TIMEOUT" default:"10s"`
}

type ProvisioningConfig struct {
	LocationID    string `envconfig:"CISECO_SHOPIFY_LOCATION_ID" required:"true"`
	StockQuantity int    `envconfig:"CISECO_VARIANT_STOCK_QUANTITY" default:"1000"`
}

type CleanupConfig struct {
	OrphanRetention time.Duration `envconfig:"CISECO_ORPHAN_RETENTION" default:"24h"`
	Interval        time.Duration `envconfig:"CISECO_CLEANUP_INTERVAL" default:"1h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CISECO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CISECO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := map[string]string{
		"CISECO_DB_HOST": db.Host,
		"CISECO_DB_USER": db.User,
		"CISECO_DB_NAME": db.Name,
	}
	for _, env := range []string{"CISECO_DB_HOST", "CISECO_DB_USER", "CISECO_DB_NAME"} {
		if required[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either CISECO_DB_DSN or %s are required", strings.Join(missing, ", "))
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
