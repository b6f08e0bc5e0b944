package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const defaultDevSecret = "change-me-dev-idp-secret"

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	DatabaseURL string `env:"DATABASE_URL" envDefault:"file:racefinder.db?_pragma=busy_timeout(5000)"`
	RedisURL    string `env:"REDIS_URL"`

	// Identity provider. Either IDPCertsURL (RS256 x509 bundle) or IDPDevSecret
	// (HS256, dev only) must be configured.
	IDPProjectID string `env:"IDP_PROJECT_ID"`
	IDPIssuer    string `env:"IDP_ISSUER"`
	IDPCertsURL  string `env:"IDP_CERTS_URL"`
	IDPDevSecret string `env:"IDP_DEV_SECRET"`
	IDPDevKID    string `env:"IDP_DEV_KID" envDefault:"dev"`

	BootstrapSuperAdminEmail string `env:"BOOTSTRAP_SUPER_ADMIN_EMAIL,required"`

	LikeRateLimit   int           `env:"LIKE_RATE_LIMIT" envDefault:"10"`
	LikeRateWindow  time.Duration `env:"LIKE_RATE_WINDOW" envDefault:"60s"`
	SubmissionRPS   float64       `env:"SUBMISSION_RPS" envDefault:"0.2"`
	SubmissionBurst int           `env:"SUBMISSION_BURST" envDefault:"5"`

	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	LastLoginTimeout  time.Duration `env:"LAST_LOGIN_TIMEOUT" envDefault:"5s"`
	ReconcileSchedule string        `env:"RECONCILE_SCHEDULE" envDefault:"@every 6h"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn(".env file could not be read")
	}
	return parse(env.Options{})
}

// LoadFrom parses config from an explicit variable set instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.BootstrapSuperAdminEmail = strings.ToLower(strings.TrimSpace(cfg.BootstrapSuperAdminEmail))

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if !strings.Contains(cfg.BootstrapSuperAdminEmail, "@") {
		return fmt.Errorf("BOOTSTRAP_SUPER_ADMIN_EMAIL must be an email address")
	}
	if cfg.LikeRateLimit <= 0 {
		return fmt.Errorf("LIKE_RATE_LIMIT must be > 0")
	}
	if cfg.LikeRateWindow <= 0 {
		return fmt.Errorf("LIKE_RATE_WINDOW must be > 0")
	}
	if cfg.SubmissionRPS <= 0 || cfg.SubmissionBurst <= 0 {
		return fmt.Errorf("SUBMISSION_RPS and SUBMISSION_BURST must be > 0")
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0")
	}
	if cfg.LastLoginTimeout <= 0 {
		return fmt.Errorf("LAST_LOGIN_TIMEOUT must be > 0")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be one of: text, json")
	}
	if cfg.IDPCertsURL == "" && cfg.IDPDevSecret == "" {
		return fmt.Errorf("one of IDP_CERTS_URL or IDP_DEV_SECRET must be set")
	}

	if cfg.IsProdLike() {
		if cfg.IDPDevSecret != "" {
			return fmt.Errorf("in prod/release IDP_DEV_SECRET must not be set")
		}
		if cfg.IDPProjectID == "" {
			return fmt.Errorf("in prod/release IDP_PROJECT_ID must be set")
		}
		if !strings.HasPrefix(cfg.DatabaseURL, "postgres://") && !strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
			return fmt.Errorf("in prod/release DATABASE_URL must point at PostgreSQL")
		}
	} else if strings.TrimSpace(cfg.IDPDevSecret) == defaultDevSecret {
		log.Warn("IDP_DEV_SECRET is the example value; tokens are trivially forgeable")
	}

	return nil
}

func (c *Config) IsProdLike() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

func (c *Config) UseRedis() bool {
	return c.RedisURL != ""
}
