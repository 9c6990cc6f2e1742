package config

// Config holds all application configuration, shared across the four service
// binaries. Each binary reads the sections it needs; unrelated sections keep
// their defaults.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"       validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database"     validate:"required"`
	Redis        RedisConfig        `mapstructure:"redis"        validate:"required"`
	Auth         AuthConfig         `mapstructure:"auth"         validate:"required"`
	Task         TaskConfig         `mapstructure:"task"         validate:"required"`
	Mail         MailConfig         `mapstructure:"mail"`
	Notification NotificationConfig `mapstructure:"notification" validate:"required"`
	Gateway      GatewayConfig      `mapstructure:"gateway"      validate:"required"`
}

// ServerConfig contains settings shared by every HTTP listener.
type ServerConfig struct {
	Port       int    `mapstructure:"port"        validate:"required,gt=0,lt=65536"`
	LogLevel   string `mapstructure:"log_level"   validate:"required,oneof=debug info warn error"`
	CORSOrigin string `mapstructure:"cors_origin" validate:"required"`
}

// DatabaseConfig contains the PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// RedisConfig contains the Redis connection settings. Sessions, caches, the
// notification queue, and the notification log all share one instance.
type RedisConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings for the auth service and the
// bearer-token validation path used by the gateway.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	SessionLifetimeHours int    `mapstructure:"session_lifetime_hours" validate:"required,gt=0"`
	CookieSecure         bool   `mapstructure:"cookie_secure"`
}

// TaskConfig contains task-service settings: the task list cache TTL and the
// endpoint of the notification service for the fire-and-forget dispatch.
type TaskConfig struct {
	CacheTTLSeconds      int    `mapstructure:"cache_ttl_seconds"      validate:"required,gt=0"`
	NotificationURL      string `mapstructure:"notification_url"       validate:"required"`
	NotifyTimeoutSeconds int    `mapstructure:"notify_timeout_seconds" validate:"required,gt=0"`
}

// MailConfig contains outbound email settings. An empty API key disables
// email delivery entirely; jobs are still logged but no send is attempted.
type MailConfig struct {
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
	FromAddress    string `mapstructure:"from_address"`
	FromName       string `mapstructure:"from_name"`
}

// NotificationConfig contains queue and worker settings for the notification
// service.
type NotificationConfig struct {
	QueueKey     string `mapstructure:"queue_key"     validate:"required"`
	WorkerCount  int    `mapstructure:"worker_count"  validate:"required,gt=0"`
	HistoryLimit int    `mapstructure:"history_limit" validate:"required,gt=0"`
	MaxAttempts  int    `mapstructure:"max_attempts"  validate:"required,gt=0"`
}

// GatewayConfig contains the gateway's backend endpoints, token cache TTL and
// per-IP rate limit budget.
type GatewayConfig struct {
	AuthServiceURL         string  `mapstructure:"auth_service_url"         validate:"required"`
	TaskServiceURL         string  `mapstructure:"task_service_url"         validate:"required"`
	NotificationServiceURL string  `mapstructure:"notification_service_url" validate:"required"`
	TokenCacheTTLSeconds   int     `mapstructure:"token_cache_ttl_seconds"  validate:"required,gt=0"`
	RateLimitPerSecond     float64 `mapstructure:"rate_limit_per_second"    validate:"required,gt=0"`
	RateLimitBurst         int     `mapstructure:"rate_limit_burst"         validate:"required,gt=0"`
	ProxyTimeoutSeconds    int     `mapstructure:"proxy_timeout_seconds"    validate:"required,gt=0"`
}
