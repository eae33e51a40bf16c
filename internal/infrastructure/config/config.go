package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration. Keys mirror the TOML layout and
// the ERP_ environment variables, e.g. ERP_DATABASE_HOST for database.host.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Log         LogConfig         `mapstructure:"log"`
	HTTP        HTTPConfig        `mapstructure:"http"`
	Swagger     SwaggerConfig     `mapstructure:"swagger"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
	Trade       TradeConfig       `mapstructure:"trade"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout, stderr or a file path
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// RedisConfig holds Redis connection settings. When disabled the tax rate
// setting and idempotency keys are kept in process.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds settings for validating bearer tokens issued by the
// identity provider
type JWTConfig struct {
	Enabled               bool          `mapstructure:"enabled"`
	Secret                string        `mapstructure:"secret"`
	Issuer                string        `mapstructure:"issuer"`
	AccessTokenExpiration time.Duration `mapstructure:"access_token_expiration"`
}

type HTTPConfig struct {
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
	MaxBodySize    int64         `mapstructure:"max_body_size"`
	// An empty origin list rejects every cross-origin request.
	CORSAllowOrigins []string `mapstructure:"cors_allow_origins"`
	CORSAllowMethods []string `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders []string `mapstructure:"cors_allow_headers"`
	TrustedProxies   []string `mapstructure:"trusted_proxies"`
}

type SwaggerConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	AllowedIPs []string `mapstructure:"allowed_ips"` // IPs or CIDRs; empty allows all
}

// TelemetryConfig drives the OTLP exporters and the gorm tracing plugin.
type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"`
	SamplingRatio     float64       `mapstructure:"sampling_ratio"`
	ServiceName       string        `mapstructure:"service_name"`
	Insecure          bool          `mapstructure:"insecure"`
	MetricsInterval   time.Duration `mapstructure:"metrics_interval"`
	LogsEnabled       bool          `mapstructure:"logs_enabled"`
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"`
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`
}

// TradeConfig holds order posting settings
type TradeConfig struct {
	TaxRate            decimal.Decimal `mapstructure:"-"`
	InvoicePrefix      string          `mapstructure:"invoice_prefix"`
	PurchasePrefix     string          `mapstructure:"purchase_prefix"`
	OrderNumberRetries int             `mapstructure:"order_number_retries"`
	AllowNegativeStock bool            `mapstructure:"allow_negative_stock"`
	// ReconcileInterval is how often every product is checked against its
	// ledger; zero disables the sweep
	ReconcileInterval time.Duration `mapstructure:"reconcile_interval"`
}

type IdempotencyConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// defaults registers every key viper should know about. Unmarshal only sees
// environment overrides for registered keys, so keys without a sensible
// default are listed with their zero value.
var defaults = map[string]any{
	"app.name": "smallerp",
	"app.env":  "development",
	"app.port": "8080",

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "erp",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,

	"redis.enabled":  false,
	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.enabled":                 false,
	"jwt.secret":                  "",
	"jwt.issuer":                  "smallerp",
	"jwt.access_token_expiration": 15 * time.Minute,

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":       15 * time.Second,
	"http.write_timeout":      15 * time.Second,
	"http.idle_timeout":       time.Minute,
	"http.max_header_bytes":   1 << 20,
	"http.max_body_size":      1 << 20,
	"http.cors_allow_origins": []string{},
	"http.cors_allow_methods": []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	"http.cors_allow_headers": []string{"Content-Type", "Authorization", "X-Request-ID", "X-User-ID", "Idempotency-Key"},
	"http.trusted_proxies":    []string{},

	"swagger.enabled":     true,
	"swagger.allowed_ips": []string{},

	"telemetry.enabled":                 false,
	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.service_name":            "smallerp",
	"telemetry.insecure":                false,
	"telemetry.metrics_interval":        time.Minute,
	"telemetry.logs_enabled":            false,
	"telemetry.db_trace_enabled":        false,
	"telemetry.db_log_full_sql":         false,
	"telemetry.db_slow_query_threshold": 200 * time.Millisecond,

	"trade.tax_rate":             "0.16",
	"trade.invoice_prefix":       "INV",
	"trade.purchase_prefix":      "PO",
	"trade.order_number_retries": 5,
	"trade.allow_negative_stock": false,
	"trade.reconcile_interval":   time.Duration(0),

	"idempotency.enabled": true,
	"idempotency.ttl":     24 * time.Hour,
}

// Load reads configuration with this precedence, highest first: ERP_
// environment variables, a .env file (never overriding variables already
// set), config.toml in the working directory or /app, built-in defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("ERP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	rate, err := decimal.NewFromString(strings.TrimSpace(v.GetString("trade.tax_rate")))
	if err != nil {
		return nil, fmt.Errorf("trade.tax_rate: %w", err)
	}
	cfg.Trade.TaxRate = rate

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type rule struct {
	broken bool
	msg    string
}

func (c *Config) validate() error {
	db, trade := c.Database, c.Trade
	rules := []rule{
		{db.MaxOpenConns <= 0, "database.max_open_conns must be positive"},
		{db.MaxIdleConns < 0, "database.max_idle_conns cannot be negative"},
		{db.MaxIdleConns > db.MaxOpenConns, fmt.Sprintf(
			"database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns)},
		{trade.TaxRate.IsNegative() || trade.TaxRate.GreaterThan(decimal.NewFromInt(1)),
			"trade.tax_rate must be between 0 and 1, got " + trade.TaxRate.String()},
		{trade.OrderNumberRetries < 0, "trade.order_number_retries cannot be negative"},
		{trade.ReconcileInterval < 0, "trade.reconcile_interval cannot be negative"},
		{c.JWT.Enabled && c.JWT.Secret == "", "jwt.secret is required when jwt is enabled"},
		{c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1,
			fmt.Sprintf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)},
	}
	if c.App.Env == "production" {
		rules = append(rules,
			rule{!c.JWT.Enabled, "jwt cannot be disabled in production"},
			rule{len(c.JWT.Secret) < 32, "jwt.secret must be at least 32 characters in production"},
			rule{db.Password == "", "database.password is required in production"},
			rule{db.SSLMode == "disable", "database.sslmode cannot be 'disable' in production"},
			rule{slices.Contains(c.HTTP.CORSAllowOrigins, "*"), "http.cors_allow_origins cannot contain '*' in production"},
			rule{c.Telemetry.DBLogFullSQL, "telemetry.db_log_full_sql must be false in production"},
		)
	}

	for _, r := range rules {
		if r.broken {
			return errors.New(r.msg)
		}
	}
	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
