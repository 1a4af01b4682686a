// Package config provides configuration loading and validation utilities.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envBoundKeys are the secrets that never appear in the YAML files and
// arrive only through environment variables. Unmarshal only decodes keys
// viper already knows about, so each one needs an explicit BindEnv; the
// "."→"_" replacer turns bot.token into BOT_TOKEN.
var envBoundKeys = []string{
	"bot.token",
	"database.password",
	"redis.password",
	"sentry.dsn",
}

// Load reads configuration from YAML files and environment variables,
// validates it, and returns the resulting Config. A missing bot token or
// database credential is a fatal configuration error: the caller must not
// start the bot.
func Load() (*Config, *viper.Viper, error) {
	if err := godotenv.Load(".env.local", ".env"); err != nil {
		// missing env files are fine, real environments set variables directly
		_ = err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetConfigFile(fmt.Sprintf("./configs/%s.yaml", env))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range envBoundKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = env

	if err := Validate(&cfg); err != nil {
		return nil, nil, err
	}

	return &cfg, v, nil
}

// Validate checks the configuration against its struct tags.
func Validate(cfg *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	return nil
}

// Watch re-reads and re-validates the config file on change and hands the
// fresh copy to onChange. Invalid edits are logged and dropped, keeping the
// last good configuration active.
func Watch(v *viper.Viper, log *slog.Logger, onChange func(*Config)) {
	if v == nil || onChange == nil {
		return
	}
	if log == nil {
		log = slog.Default()
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("config file changed", slog.String("file", e.Name), slog.String("op", e.Op.String()))

		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			log.Error("failed to reload config", slog.Any("error", err))
			return
		}

		if err := Validate(&cfg); err != nil {
			log.Error("reloaded config is invalid, keeping previous", slog.Any("error", err))
			return
		}

		onChange(&cfg)
	})
	v.WatchConfig()
}
