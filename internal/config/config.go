package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                  string   `mapstructure:"PORT"`
	Env                   string   `mapstructure:"ENV"`
	AuthMode              string   `mapstructure:"AUTH_MODE"`
	DatabaseURL           string   `mapstructure:"DATABASE_URL"`
	DBMaxConns            int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns            int32    `mapstructure:"DB_MIN_CONNS"`
	AuthIssuer            string   `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL           string   `mapstructure:"AUTH_JWKS_URL"`
	AuthAudience          string   `mapstructure:"AUTH_AUDIENCE"`
	AuthSigningKey        string   `mapstructure:"AUTH_SIGNING_KEY"`
	CORSOrigins           []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS          float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst        int      `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeoutSeconds int      `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
	BodyLimit             string   `mapstructure:"BODY_LIMIT"`
	MigrationsDir         string   `mapstructure:"MIGRATIONS_DIR"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("AUTH_MODE", "") // auto-detect: "" -> inferred from ENV
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	v.SetDefault("BODY_LIMIT", "1M")
	v.SetDefault("MIGRATIONS_DIR", "./migrations")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("AUTH_MODE")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("AUTH_SIGNING_KEY")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("REQUEST_TIMEOUT_SECONDS")
	v.BindEnv("BODY_LIMIT")
	v.BindEnv("MIGRATIONS_DIR")

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

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active; all requests get clinician access.")
		log.Println("WARNING: Do NOT use this configuration in production.")
		log.Println("WARNING: Set ENV=production and configure AUTH_ISSUER for production.")
		log.Println("WARNING: ============================================================")
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

// ResolvedAuthMode returns the effective auth mode. If AUTH_MODE is explicitly
// set, it is returned. Otherwise, the mode is inferred:
//   - ENV=development → "development" (no auth, all requests get clinician access)
//   - Otherwise       → "jwt" (bearer tokens validated against JWKS or signing key)
func (c *Config) ResolvedAuthMode() string {
	if c.AuthMode != "" {
		return c.AuthMode
	}
	if c.IsDev() {
		return "development"
	}
	return "jwt"
}

// Validate checks that the configuration is safe to run. In non-development
// modes either AUTH_ISSUER/AUTH_JWKS_URL or AUTH_SIGNING_KEY must be set so
// that real JWT authentication is enforced.
func (c *Config) Validate() error {
	mode := c.ResolvedAuthMode()
	if mode != "development" && mode != "jwt" {
		return fmt.Errorf("AUTH_MODE must be \"development\" or \"jwt\", got %q", mode)
	}
	if mode == "jwt" && c.AuthIssuer == "" && c.AuthJWKSURL == "" && c.AuthSigningKey == "" {
		return fmt.Errorf(
			"one of AUTH_ISSUER, AUTH_JWKS_URL or AUTH_SIGNING_KEY must be set when AUTH_MODE is \"jwt\" (current ENV=%q). "+
				"Refusing to start without authentication configuration", c.Env)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive, got %d", c.RequestTimeoutSeconds)
	}
	return nil
}
