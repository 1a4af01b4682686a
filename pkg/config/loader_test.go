package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Minimal config file without any secrets: bot.token, database.password,
// and the other credentials must come from the environment.
const testConfigYAML = `bot:
  mode: polling

server:
  port: "8080"

database:
  host: localhost
  port: "5432"
  user: zametka
  name: zametka_test

redis:
  enabled: false

logger:
  level: debug
  format: text

i18n:
  default_lang: ru
`

func writeTestConfig(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "configs", "development.yaml"),
		[]byte(testConfigYAML),
		0o644,
	))
	t.Chdir(dir)
}

func TestLoadReadsSecretsFromEnvironment(t *testing.T) {
	writeTestConfig(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("BOT_TOKEN", "123456:test-token")
	t.Setenv("DATABASE_PASSWORD", "env-secret")

	cfg, v, err := Load()
	require.NoError(t, err)
	require.NotNil(t, v)

	require.Equal(t, "123456:test-token", cfg.Bot.Token)
	require.Equal(t, "env-secret", cfg.Database.Password)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoadFailsWithoutBotToken(t *testing.T) {
	writeTestConfig(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("DATABASE_PASSWORD", "env-secret")

	_, _, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "validate config")
}

func TestLoadFailsOnMissingConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "development")
	t.Setenv("BOT_TOKEN", "123:abc")

	_, _, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "read config")
}
