package config

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("SENSORHUB_AUTH__SECRET_KEY", testSecret)
	t.Setenv("SENSORHUB_DATABASE__HOST", "db.internal")
	t.Setenv("SENSORHUB_DATABASE__TIMESCALE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.True(t, cfg.Database.Timescale)
	assert.Equal(t, "UTC", cfg.Database.Timezone)
	assert.Equal(t, 180, cfg.Database.StartupAttempts)
	assert.Equal(t, time.Second, cfg.Database.StartupInterval)
	assert.Equal(t, 192*time.Hour, cfg.Auth.AccessTokenExpire)
	assert.Equal(t, int64(10*1024*1024), cfg.Importer.MaxUploadSize)
	assert.Equal(t, 1000, cfg.Importer.BatchSize)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("SENSORHUB_AUTH__SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret key")
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Host: "localhost", StartupAttempts: 1},
			Auth:     AuthConfig{SecretKey: testSecret},
			Importer: ImporterConfig{BatchSize: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing host", mutate: func(c *Config) { c.Database.Host = "" }, wantErr: "database host"},
		{name: "short secret", mutate: func(c *Config) { c.Auth.SecretKey = "short" }, wantErr: "32 characters"},
		{
			name: "superuser without password",
			mutate: func(c *Config) {
				c.Auth.FirstSuperuser = "admin@example.com"
				c.Auth.FirstSuperuserPassword = "short"
			},
			wantErr: "first superuser password",
		},
		{name: "zero attempts", mutate: func(c *Config) { c.Database.StartupAttempts = 0 }, wantErr: "startup attempts"},
		{name: "zero batch", mutate: func(c *Config) { c.Importer.BatchSize = 0 }, wantErr: "batch size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{
			name:     "plain",
			password: "p",
			want:     `host='h' port=5432 user='u' password='p' dbname='d' sslmode='disable' timezone='UTC'`,
		},
		{
			name:     "empty password keeps dbname",
			password: "",
			want:     `host='h' port=5432 user='u' password='' dbname='d' sslmode='disable' timezone='UTC'`,
		},
		{
			name:     "space",
			password: "pa ss",
			want:     `host='h' port=5432 user='u' password='pa ss' dbname='d' sslmode='disable' timezone='UTC'`,
		},
		{
			name:     "quote and backslash",
			password: `it's\x`,
			want:     `host='h' port=5432 user='u' password='it\'s\\x' dbname='d' sslmode='disable' timezone='UTC'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DatabaseConfig{
				Host: "h", Port: 5432, User: "u", Password: tt.password, DBName: "d", SSLMode: "disable", Timezone: "UTC",
			}
			assert.Equal(t, tt.want, c.DSN())

			_, err := pq.NewConnector(c.DSN())
			assert.NoError(t, err)
		})
	}
}

func TestURL(t *testing.T) {
	c := DatabaseConfig{
		Host: "h", Port: 5432, User: "u", Password: "p@ss word", DBName: "d", SSLMode: "disable", Timezone: "UTC",
	}
	assert.Equal(t, "postgres://u:p%40ss%20word@h:5432/d?sslmode=disable&timezone=UTC", c.URL())
}
