package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddress())
	assert.Equal(t, "public", cfg.Server.PublicDir)
	assert.Equal(t, 256, cfg.Server.SendBuffer)
	assert.Equal(t, int64(4096), cfg.Server.MaxMessageSize)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadConfig_PortFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "")

	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 7000
  public_dir: /srv/www
database:
  driver: gorm
  postgres:
    host: db
    port: 6543
    user: game
    password: secret
    dbname: games
    sslmode: require
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "/srv/www", cfg.Server.PublicDir)
	assert.Equal(t, "gorm", cfg.Database.Driver)
	assert.Equal(t,
		"host=db port=6543 user=game password=secret dbname=games sslmode=require",
		cfg.Database.Postgres.DSN())
}

func TestLoadConfig_DotEnv(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "")
	os.Unsetenv("LOG_LEVEL")
	t.Cleanup(func() { os.Unsetenv("LOG_LEVEL") })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_BrokenYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [\n"), 0o600))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
