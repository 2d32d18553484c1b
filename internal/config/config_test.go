package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ACCOUNTS_AUTH_JWTSECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/accounts.db", cfg.Database.Path)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, 5*time.Second, cfg.Database.Postgres.ConnectTimeout)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "HS256", cfg.Auth.Algorithm)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL())
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ACCOUNTS_AUTH_JWTSECRET", "k")
	t.Setenv("ACCOUNTS_AUTH_ALGORITHM", "hs512")
	t.Setenv("ACCOUNTS_AUTH_TOKENTTLMINUTES", "5")
	t.Setenv("ACCOUNTS_DATABASE_DRIVER", "Postgres")
	t.Setenv("ACCOUNTS_DATABASE_POSTGRES_HOST", "db")
	t.Setenv("ACCOUNTS_DATABASE_POSTGRES_CONNECTTIMEOUT", "2s")
	t.Setenv("ACCOUNTS_SERVER_ADDR", "127.0.0.1:9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "HS512", cfg.Auth.Algorithm)
	assert.Equal(t, 5*time.Minute, cfg.TokenTTL())
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "db", cfg.Database.Postgres.Host)
	assert.Equal(t, 2*time.Second, cfg.Database.Postgres.ConnectTimeout)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	require.NoError(t, cfg.Validate())
}

func validConfig() Config {
	var cfg Config
	cfg.Auth.JWTSecret = "k"
	cfg.Auth.Algorithm = "HS256"
	cfg.Auth.TokenTTLMinutes = 30
	cfg.Database.Driver = DriverSQLite
	cfg.Database.Path = "data/accounts.db"
	return cfg
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = "  " }},
		{"bad algorithm", func(c *Config) { c.Auth.Algorithm = "RS256" }},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTLMinutes = 0 }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"sqlite without path", func(c *Config) { c.Database.Path = "" }},
		{"postgres without host", func(c *Config) {
			c.Database.Driver = DriverPostgres
			c.Database.Postgres.Name = "accounts"
		}},
	}

	require.NoError(t, validConfig().Validate())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadDotEnv_DoesNotOverrideExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nACCOUNTS_DOTENV_NEW=\"from-file\"\nACCOUNTS_DOTENV_SET=from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("ACCOUNTS_DOTENV_SET", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("ACCOUNTS_DOTENV_NEW") })

	require.NoError(t, loadDotEnv(path))

	assert.Equal(t, "from-file", os.Getenv("ACCOUNTS_DOTENV_NEW"))
	assert.Equal(t, "from-env", os.Getenv("ACCOUNTS_DOTENV_SET"))
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	require.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
}
