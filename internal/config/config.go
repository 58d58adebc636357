package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Mail      MailConfig      `mapstructure:"mail"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Task      TaskConfig      `mapstructure:"task"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// AllowedOrigins lists the origins permitted by the CORS policy.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lt=1441"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,gtfield=TokenLifetimeMinutes"`
	// VerificationCodeLifetimeMinutes bounds how long an email confirmation code stays usable.
	VerificationCodeLifetimeMinutes int `mapstructure:"verification_code_lifetime_minutes" validate:"required,gt=0"`
	// ResetCodeLifetimeMinutes bounds how long a password reset code stays usable.
	ResetCodeLifetimeMinutes int `mapstructure:"reset_code_lifetime_minutes" validate:"required,gt=0"`
	// PasswordResetTokenLifetimeMinutes bounds the token issued by a verified
	// reset code, which only authorizes setting a new password.
	PasswordResetTokenLifetimeMinutes int `mapstructure:"password_reset_token_lifetime_minutes" validate:"required,gt=0"`
}

// DashboardConfig controls how dashboard aggregations interpret calendar days.
type DashboardConfig struct {
	// Timezone is the IANA zone used to decide what "today" is.
	Timezone string `mapstructure:"timezone" validate:"required,timezone"`
}

// MailConfig holds SMTP delivery settings. Delivery is skipped when Enabled is false.
type MailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host" validate:"required_if=Enabled true"`
	SMTPPort     int    `mapstructure:"smtp_port" validate:"required_if=Enabled true,omitempty,gt=0,lt=65536"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	From         string `mapstructure:"from" validate:"required_if=Enabled true,omitempty,email"`
}

// StorageConfig holds S3-compatible object storage settings used for avatars.
type StorageConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Bucket          string `mapstructure:"bucket" validate:"required_if=Enabled true"`
	Region          string `mapstructure:"region" validate:"required_if=Enabled true"`
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	// PublicBaseURL overrides the URL prefix returned for uploaded objects.
	PublicBaseURL string `mapstructure:"public_base_url" validate:"omitempty,url"`
}

// RedisConfig configures the rate limiter backing store. An empty Addr disables rate limiting.
type RedisConfig struct {
	Addr                string `mapstructure:"addr"`
	Password            string `mapstructure:"password"`
	DB                  int    `mapstructure:"db" validate:"gte=0"`
	RateLimitRequests   int    `mapstructure:"rate_limit_requests" validate:"gt=0"`
	RateLimitWindowSecs int    `mapstructure:"rate_limit_window_seconds" validate:"gt=0"`
}

// TaskConfig contains settings for the background job runner.
type TaskConfig struct {
	QueueSize   int `mapstructure:"queue_size" validate:"gt=0"`
	WorkerCount int `mapstructure:"worker_count" validate:"gt=0"`
}
