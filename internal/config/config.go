package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Importer   ImporterConfig   `mapstructure:"importer"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	Timezone        string        `mapstructure:"timezone"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Timescale       bool          `mapstructure:"timescale"` // hypertable + time_bucket buckets
	StartupAttempts int           `mapstructure:"startup_attempts"`
	StartupInterval time.Duration `mapstructure:"startup_interval"`
}

// DSN renders a lib/pq keyword/value connection string. Values are single-quoted so
// empty values and values containing spaces survive parsing.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s timezone=%s",
		quoteDSN(c.Host), c.Port, quoteDSN(c.User), quoteDSN(c.Password),
		quoteDSN(c.DBName), quoteDSN(c.SSLMode), quoteDSN(c.Timezone),
	)
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteDSN(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

// URL renders the same connection as a postgres:// URL, the form golang-migrate expects.
func (c DatabaseConfig) URL() string {
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	if c.Timezone != "" {
		q.Set("timezone", c.Timezone)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + strconv.Itoa(c.Port),
		Path:     "/" + c.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

type AuthConfig struct {
	SecretKey              string        `mapstructure:"secret_key"`
	AccessTokenExpire      time.Duration `mapstructure:"access_token_expire"`
	ResetTokenExpire       time.Duration `mapstructure:"reset_token_expire"`
	FirstSuperuser         string        `mapstructure:"first_superuser"`
	FirstSuperuserPassword string        `mapstructure:"first_superuser_password"`
	OpenRegistration       bool          `mapstructure:"open_registration"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port for the redis client.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type MonitoringConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

type ImporterConfig struct {
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
	BatchSize     int   `mapstructure:"batch_size"`
}

// Load initializes configuration from a .env file, environment variables and config file
func Load() (*Config, error) {
	// .env is optional; real environment variables take precedence over it
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SENSORHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "app")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.timescale", false)
	v.SetDefault("database.startup_attempts", 180)
	v.SetDefault("database.startup_interval", "1s")

	// Auth defaults
	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.first_superuser", "")
	v.SetDefault("auth.first_superuser_password", "")
	v.SetDefault("auth.access_token_expire", "192h") // 8 days
	v.SetDefault("auth.reset_token_expire", "48h")
	v.SetDefault("auth.open_registration", false)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Monitoring defaults
	v.SetDefault("monitoring.log_level", "info")

	// Importer defaults
	v.SetDefault("importer.max_upload_size", 10*1024*1024) // 10MB
	v.SetDefault("importer.batch_size", 1000)
}

func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.Auth.SecretKey == "" {
		return fmt.Errorf("auth secret key is required")
	}
	if len(config.Auth.SecretKey) < 32 {
		return fmt.Errorf("auth secret key must be at least 32 characters")
	}
	if config.Auth.FirstSuperuser != "" && len(config.Auth.FirstSuperuserPassword) < 8 {
		return fmt.Errorf("first superuser password must be at least 8 characters")
	}
	if config.Database.StartupAttempts < 1 {
		return fmt.Errorf("database startup attempts must be positive")
	}
	if config.Importer.BatchSize < 1 {
		return fmt.Errorf("importer batch size must be positive")
	}
	return nil
}
