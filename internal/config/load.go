package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "UETODO"

// configKeys lists every key that may be supplied through the environment.
// Viper only consults the environment for keys it knows about, so each one
// is bound explicitly.
var configKeys = []string{
	"server.port",
	"server.log_level",
	"server.allowed_origins",
	"database.url",
	"auth.jwt_secret",
	"auth.bcrypt_cost",
	"auth.token_lifetime_minutes",
	"auth.refresh_token_lifetime_minutes",
	"auth.verification_code_lifetime_minutes",
	"auth.reset_code_lifetime_minutes",
	"auth.password_reset_token_lifetime_minutes",
	"dashboard.timezone",
	"mail.enabled",
	"mail.smtp_host",
	"mail.smtp_port",
	"mail.smtp_user",
	"mail.smtp_password",
	"mail.from",
	"storage.enabled",
	"storage.bucket",
	"storage.region",
	"storage.endpoint",
	"storage.access_key_id",
	"storage.secret_access_key",
	"storage.public_base_url",
	"redis.addr",
	"redis.password",
	"redis.db",
	"redis.rate_limit_requests",
	"redis.rate_limit_window_seconds",
	"task.queue_size",
	"task.worker_count",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080)
	v.SetDefault("auth.verification_code_lifetime_minutes", 10)
	v.SetDefault("auth.reset_code_lifetime_minutes", 600)
	v.SetDefault("auth.password_reset_token_lifetime_minutes", 15)

	v.SetDefault("dashboard.timezone", "UTC")

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.smtp_port", 587)

	v.SetDefault("storage.enabled", false)

	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.rate_limit_requests", 20)
	v.SetDefault("redis.rate_limit_window_seconds", 60)

	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.worker_count", 2)
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config.yaml in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Comma separated origin lists arrive as a single element from the environment
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
