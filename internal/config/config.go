package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"PORT"`
	Env             string        `mapstructure:"ENV"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32         `mapstructure:"DB_MIN_CONNS"`
	RecordsAPIURL   string        `mapstructure:"RECORDS_API_URL"`
	AuthAPIURL      string        `mapstructure:"AUTH_API_URL"`
	ExplainAPIURL   string        `mapstructure:"EXPLAIN_API_URL"`
	ImagingAPIURL   string        `mapstructure:"IMAGING_API_URL"`
	UpstreamTimeout time.Duration `mapstructure:"UPSTREAM_TIMEOUT"`
	SessionTTL      time.Duration `mapstructure:"SESSION_TTL"`
	RedirectDelayMS int           `mapstructure:"REDIRECT_DELAY_MS"`
	CORSOrigins     []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS    float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `mapstructure:"RATE_LIMIT_BURST"`
	CookieSecure    bool          `mapstructure:"COOKIE_SECURE"`
	TLSEnabled      bool          `mapstructure:"TLS_ENABLED"`
	TLSCertFile     string        `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile      string        `mapstructure:"TLS_KEY_FILE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("RECORDS_API_URL", "http://localhost:3000/api")
	v.SetDefault("AUTH_API_URL", "http://localhost:3000/api")
	v.SetDefault("EXPLAIN_API_URL", "http://localhost:3000/api")
	v.SetDefault("IMAGING_API_URL", "http://localhost:8080")
	v.SetDefault("UPSTREAM_TIMEOUT", "15s")
	v.SetDefault("SESSION_TTL", "720h")
	v.SetDefault("REDIRECT_DELAY_MS", 1000)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("RECORDS_API_URL")
	v.BindEnv("AUTH_API_URL")
	v.BindEnv("EXPLAIN_API_URL")
	v.BindEnv("IMAGING_API_URL")
	v.BindEnv("UPSTREAM_TIMEOUT")
	v.BindEnv("SESSION_TTL")
	v.BindEnv("REDIRECT_DELAY_MS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("COOKIE_SECURE")
	v.BindEnv("TLS_ENABLED")
	v.BindEnv("TLS_CERT_FILE")
	v.BindEnv("TLS_KEY_FILE")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.IsDev() && cfg.DatabaseURL == "" {
		log.Println("WARNING: no DATABASE_URL configured, sessions are held in memory")
		log.Println("WARNING: all portal sessions are lost on restart")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// every upstream base URL must be set explicitly and sessions must be durable,
// since the in-memory session store forgets logins on restart.
func (c *Config) Validate() error {
	if !c.IsDev() {
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required outside development (in-memory sessions do not survive restarts)")
		}
		for name, val := range map[string]string{
			"RECORDS_API_URL": c.RecordsAPIURL,
			"AUTH_API_URL":    c.AuthAPIURL,
			"EXPLAIN_API_URL": c.ExplainAPIURL,
			"IMAGING_API_URL": c.ImagingAPIURL,
		} {
			if val == "" {
				return fmt.Errorf("%s is required outside development", name)
			}
		}
	}

	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}

	// TLS validation: when TLS is enabled, cert and key files must be specified.
	if c.TLSEnabled {
		if c.TLSCertFile == "" {
			return fmt.Errorf("TLS_CERT_FILE is required when TLS_ENABLED is true")
		}
		if c.TLSKeyFile == "" {
			return fmt.Errorf("TLS_KEY_FILE is required when TLS_ENABLED is true")
		}
	}

	return nil
}
