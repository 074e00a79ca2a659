package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Backend       BackendConfig
	Redis         RedisConfig
	Session       SessionConfig
	AuthRateLimit AuthRateLimitConfig
	Contracts     ContractsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env      string `envconfig:"DOCERIA_APP_ENV" required:"true"`
	Port     string `envconfig:"DOCERIA_APP_PORT" default:"3000"`
	LogLevel string `envconfig:"DOCERIA_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig locates the order-management REST API this gateway consumes.
type BackendConfig struct {
	BaseURL string        `envconfig:"DOCERIA_BACKEND_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"DOCERIA_BACKEND_TIMEOUT" default:"15s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DOCERIA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DOCERIA_REDIS_ADDR"`
	Password     string        `envconfig:"DOCERIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"DOCERIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DOCERIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DOCERIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DOCERIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DOCERIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DOCERIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig drives the signed session cookie and its Redis registration.
type SessionConfig struct {
	Secret     string `envconfig:"DOCERIA_SESSION_SECRET" required:"true"`
	Issuer     string `envconfig:"DOCERIA_SESSION_ISSUER" required:"true"`
	TTLMinutes int    `envconfig:"DOCERIA_SESSION_TTL_MINUTES" default:"43200"`
	CookieName string `envconfig:"DOCERIA_SESSION_COOKIE" default:"doceria_session"`
	Secure     bool   `envconfig:"DOCERIA_SESSION_COOKIE_SECURE" default:"false"`
}

// TTL returns the session lifetime configured in minutes.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"DOCERIA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"DOCERIA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"DOCERIA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"DOCERIA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"DOCERIA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"DOCERIA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// ContractsConfig bounds the upload/extract screen.
type ContractsConfig struct {
	DraftTTL    time.Duration `envconfig:"DOCERIA_CONTRACT_DRAFT_TTL" default:"30m"`
	MaxUploadMB int           `envconfig:"DOCERIA_CONTRACT_MAX_UPLOAD_MB" default:"20"`
}
