package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Bot: BotConfig{Token: "123:abc", Mode: "polling"},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "zametka",
			Password: "secret",
			Name:     "zametka",
		},
	}
}

func TestValidateRequiresBotToken(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Validate(cfg))

	cfg.Bot.Token = ""
	require.Error(t, Validate(cfg))
}

func TestValidateRejectsUnknownBotMode(t *testing.T) {
	cfg := validConfig()
	cfg.Bot.Mode = "carrier-pigeon"
	require.Error(t, Validate(cfg))
}

func TestValidateRequiresRedisAddrWhenEnabled(t *testing.T) {
	cfg := validConfig()
	cfg.Redis.Enabled = true
	require.Error(t, Validate(cfg))

	cfg.Redis.Addr = "localhost:6379"
	require.NoError(t, Validate(cfg))
}

func TestDatabaseDSN(t *testing.T) {
	dsn := DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "u",
		Password: "p",
		Name:     "notes",
	}.DSN()

	require.Equal(t, "host=db port=5432 user=u password=p dbname=notes sslmode=disable", dsn)

	withSSL := DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "u",
		Password: "p",
		Name:     "notes",
		SSLMode:  "require",
	}.DSN()

	require.Contains(t, withSSL, "sslmode=require")
}
