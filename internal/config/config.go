package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/types"
	"github.com/storepulse/storepulse/internal/validator"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Logging    LoggingConfig    `mapstructure:"logging" validate:"required"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	ClickHouse ClickHouseConfig `mapstructure:"clickhouse"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Pyroscope  PyroscopeConfig  `mapstructure:"pyroscope"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics" validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level          types.LogLevel `mapstructure:"level" validate:"required"`
	FluentdEnabled bool           `mapstructure:"fluentd_enabled"`
	FluentdHost    string         `mapstructure:"fluentd_host"`
	FluentdPort    int            `mapstructure:"fluentd_port"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
}

type ClickHouseConfig struct {
	Address  string `mapstructure:"address"`
	TLS      bool   `mapstructure:"tls"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type PyroscopeConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	ServerAddress     string `mapstructure:"server_address"`
	ApplicationName   string `mapstructure:"application_name"`
	BasicAuthUser     string `mapstructure:"basic_auth_user"`
	BasicAuthPassword string `mapstructure:"basic_auth_password"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// AnalyticsConfig tunes the analytics engine.
type AnalyticsConfig struct {
	Store           types.SaleStore `mapstructure:"store" validate:"required,oneof=postgres clickhouse"`
	Timezone        string          `mapstructure:"timezone"`
	RandomSeed      uint64          `mapstructure:"random_seed"`
	MaxBundles      int             `mapstructure:"max_bundles" validate:"gte=0"`
	MinWeekdayUnits int             `mapstructure:"min_weekday_units" validate:"gte=0"`
	MaxBuckets      int             `mapstructure:"max_buckets" validate:"gte=0"`
}

// NewConfig loads config.yaml, overlays STOREPULSE_* environment variables and
// validates the result.
func NewConfig() (*Configuration, error) {
	return Load("")
}

// Load reads configuration from path, or from the default search paths when
// path is empty.
func Load(path string) (*Configuration, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./internal/config")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("STOREPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrSystem)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to decode configuration").
			Mark(ierr.ErrSystem)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Configuration) Validate() error {
	if err := validator.ValidateRequest(c); err != nil {
		return err
	}
	if err := types.ValidateTimezone(c.Analytics.Timezone); err != nil {
		return err
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()
	v.SetDefault("deployment.mode", d.Deployment.Mode)
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.fluentd_enabled", d.Logging.FluentdEnabled)
	v.SetDefault("logging.fluentd_host", d.Logging.FluentdHost)
	v.SetDefault("logging.fluentd_port", d.Logging.FluentdPort)
	v.SetDefault("postgres.host", d.Postgres.Host)
	v.SetDefault("postgres.port", d.Postgres.Port)
	v.SetDefault("postgres.user", d.Postgres.User)
	v.SetDefault("postgres.password", d.Postgres.Password)
	v.SetDefault("postgres.dbname", d.Postgres.DBName)
	v.SetDefault("postgres.sslmode", d.Postgres.SSLMode)
	v.SetDefault("postgres.max_open_conns", d.Postgres.MaxOpenConns)
	v.SetDefault("postgres.max_idle_conns", d.Postgres.MaxIdleConns)
	v.SetDefault("postgres.conn_max_lifetime_minutes", d.Postgres.ConnMaxLifetimeMinutes)
	v.SetDefault("clickhouse.address", d.ClickHouse.Address)
	v.SetDefault("clickhouse.tls", d.ClickHouse.TLS)
	v.SetDefault("clickhouse.username", d.ClickHouse.Username)
	v.SetDefault("clickhouse.password", d.ClickHouse.Password)
	v.SetDefault("clickhouse.database", d.ClickHouse.Database)
	v.SetDefault("sentry.enabled", d.Sentry.Enabled)
	v.SetDefault("sentry.dsn", d.Sentry.DSN)
	v.SetDefault("sentry.environment", d.Sentry.Environment)
	v.SetDefault("sentry.sample_rate", d.Sentry.SampleRate)
	v.SetDefault("pyroscope.enabled", d.Pyroscope.Enabled)
	v.SetDefault("pyroscope.server_address", d.Pyroscope.ServerAddress)
	v.SetDefault("pyroscope.application_name", d.Pyroscope.ApplicationName)
	v.SetDefault("pyroscope.basic_auth_user", d.Pyroscope.BasicAuthUser)
	v.SetDefault("pyroscope.basic_auth_password", d.Pyroscope.BasicAuthPassword)
	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_second", d.RateLimit.RequestsPerSecond)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)
	v.SetDefault("analytics.store", d.Analytics.Store)
	v.SetDefault("analytics.timezone", d.Analytics.Timezone)
	v.SetDefault("analytics.random_seed", d.Analytics.RandomSeed)
	v.SetDefault("analytics.max_bundles", d.Analytics.MaxBundles)
	v.SetDefault("analytics.min_weekday_units", d.Analytics.MinWeekdayUnits)
	v.SetDefault("analytics.max_buckets", d.Analytics.MaxBuckets)
}

// GetDefaultConfig returns a configuration usable for local runs and tests
// without any file or environment.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:       types.LogLevelInfo,
			FluentdPort: 24224,
		},
		Postgres: PostgresConfig{
			Host:                   "localhost",
			Port:                   5432,
			User:                   "storepulse",
			Password:               "storepulse",
			DBName:                 "storepulse",
			SSLMode:                "disable",
			MaxOpenConns:           10,
			MaxIdleConns:           5,
			ConnMaxLifetimeMinutes: 60,
		},
		ClickHouse: ClickHouseConfig{
			Address:  "localhost:9000",
			Username: "default",
			Database: "storepulse",
		},
		Sentry: SentryConfig{SampleRate: 1.0, Environment: "local"},
		Pyroscope: PyroscopeConfig{
			ServerAddress:   "http://localhost:4040",
			ApplicationName: "storepulse",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Analytics: AnalyticsConfig{
			Store:           types.SaleStorePostgres,
			Timezone:        "UTC",
			MaxBundles:      20,
			MinWeekdayUnits: 3,
			MaxBuckets:      1000,
		},
	}
}

// GetDSN builds the lib/pq connection string.
func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
