package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	MediaDriverLocal = "local"
	MediaDriverS3    = "s3"
)

type Config struct {
	AppEnv             string        `env:"APP_ENV" envDefault:"development"`
	ServerPort         string        `env:"SERVER_PORT" envDefault:"8000"`
	ServerReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	ServerWriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ServerIdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	MaxBodyBytes       int64         `env:"MAX_BODY_BYTES" envDefault:"52428800"`
	CORSOrigins        []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	RateLimitRPM       int           `env:"RATE_LIMIT_RPM" envDefault:"100"`
	AuthRateLimitRPM   int           `env:"AUTH_RATE_LIMIT_RPM" envDefault:"10"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL            string        `env:"DATABASE_URL"`
	DatabaseName           string        `env:"DATABASE_NAME" envDefault:"lms"`
	DBConnectRetryInterval time.Duration `env:"DB_CONNECT_RETRY_INTERVAL" envDefault:"5s"`
	RedisURL               string        `env:"REDIS_URL"`

	ActivationSecret             string `env:"ACTIVATION_SECRET"`
	ActivationTokenExpireMinutes int    `env:"ACTIVATION_TOKEN_EXPIRE_MINUTES" envDefault:"5"`
	AccessTokenSecret            string `env:"ACCESS_TOKEN_SECRET"`
	AccessTokenExpireMinutes     int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"5"`
	RefreshTokenSecret           string `env:"REFRESH_TOKEN_SECRET"`
	RefreshTokenExpireDays       int    `env:"REFRESH_TOKEN_EXPIRE_DAYS" envDefault:"7"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	MediaDriver    string `env:"MEDIA_DRIVER" envDefault:"local"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3PublicURL    string `env:"S3_PUBLIC_URL"`
	MediaLocalRoot string `env:"MEDIA_LOCAL_ROOT" envDefault:"./data/media"`
	MediaPublicURL string `env:"MEDIA_PUBLIC_URL" envDefault:"http://localhost:8000/media"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if strings.TrimSpace(c.RedisURL) == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if strings.TrimSpace(c.ActivationSecret) == "" {
		return fmt.Errorf("ACTIVATION_SECRET is required")
	}

	if strings.TrimSpace(c.AccessTokenSecret) == "" {
		return fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}

	if strings.TrimSpace(c.RefreshTokenSecret) == "" {
		return fmt.Errorf("REFRESH_TOKEN_SECRET is required")
	}

	if c.ActivationTokenExpireMinutes <= 0 {
		return fmt.Errorf("ACTIVATION_TOKEN_EXPIRE_MINUTES must be positive")
	}

	if c.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}

	if c.RefreshTokenExpireDays <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_EXPIRE_DAYS must be positive")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}

	if c.DBConnectRetryInterval <= 0 {
		return fmt.Errorf("DB_CONNECT_RETRY_INTERVAL must be positive")
	}

	switch c.MediaDriver {
	case MediaDriverLocal:
		if strings.TrimSpace(c.MediaLocalRoot) == "" {
			return fmt.Errorf("MEDIA_LOCAL_ROOT cannot be empty")
		}
	case MediaDriverS3:
		if strings.TrimSpace(c.S3Bucket) == "" {
			return fmt.Errorf("S3_BUCKET is required when MEDIA_DRIVER=s3")
		}
	default:
		return fmt.Errorf("MEDIA_DRIVER must be one of local, s3")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// SMTPConfigured reports whether outgoing mail can be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort != 0 && c.SMTPFrom != ""
}

func (c *Config) ActivationTTL() time.Duration {
	return time.Duration(c.ActivationTokenExpireMinutes) * time.Minute
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireDays) * 24 * time.Hour
}
