package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "SERVER_PORT", "REDIS_URL", "ALLOWED_ORIGINS", "BCRYPT_COST",
		"LOG_LEVEL", "MAX_PAGE_SIZE", "MIGRATIONS_PATH", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/tv")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.ServerPort)
	assert.Equal(t, ":8080", c.Addr())
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, "info", c.LogLevel)
	assert.Zero(t, c.MaxPageSize)
	assert.Equal(t, "migrations", c.MigrationsPath)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.Empty(t, c.RedisURL)
	assert.Empty(t, c.AllowedOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/tv")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example, ,http://b.example")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("MAX_PAGE_SIZE", "100")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", c.ServerPort)
	assert.Equal(t, "redis://localhost:6379/0", c.RedisURL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, c.AllowedOrigins)
	assert.Equal(t, 12, c.BcryptCost)
	assert.Equal(t, 100, c.MaxPageSize)
	assert.Equal(t, 3*time.Second, c.ShutdownTimeout)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/tv")
	t.Setenv("MAX_PAGE_SIZE", "lots")
	_, err := Load()
	assert.ErrorContains(t, err, "MAX_PAGE_SIZE")
}

func TestLoadReadsEnvFile(t *testing.T) {
	clearEnv(t)
	dir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("DATABASE_URL=postgres://from-file/tv\nLOG_LEVEL=debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://from-file/tv", c.DatabaseURL)
	assert.Equal(t, "warn", c.LogLevel, "set variables win over the file")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database_url: postgres://localhost/tv
server_port: "9090"
allowed_origins:
  - http://guide.example
max_page_size: 50
shutdown_timeout: 5s
`), 0o600))

	c, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", c.ServerPort)
	assert.Equal(t, []string{"http://guide.example"}, c.AllowedOrigins)
	assert.Equal(t, 50, c.MaxPageSize)
	assert.Equal(t, 5*time.Second, c.ShutdownTimeout)
	assert.Equal(t, 10, c.BcryptCost)
}

func TestLoadFromFileRequiresDatabaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_port: \"80\"\n"), 0o600))
	_, err := LoadFromFile(path)
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}
