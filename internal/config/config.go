package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv            string        `env:"APP_ENV" envDefault:"dev"`
	ProdOrigins       string        `env:"PROD_ORIGINS"`
	HTTPAddr          string        `env:"HTTP_ADDR" envDefault:":8080"`
	StoreDriver       string        `env:"STORE_DRIVER" envDefault:"postgres"`
	DBDSN             string        `env:"DB_DSN"`
	AutoMigrate       bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	JWTSecret         string        `env:"JWT_SECRET,required,notEmpty"`
	JWTAccessTokenTTL time.Duration `env:"JWT_ACCESS_TOKEN_TTL" envDefault:"15m"`
	BcryptCost        int           `env:"BCRYPT_COST" envDefault:"12"`
	LogLevel          slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`

	IsProduction bool `env:"-"`
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.Any("error", err))
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	cfg.IsProduction = cfg.AppEnv == PROD_STRING

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		// Database DSN is required for the postgres store
		if c.DBDSN == "" {
			return errors.New("DB_DSN is required when STORE_DRIVER=postgres")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q", c.StoreDriver)
	}

	if c.JWTAccessTokenTTL <= 0 {
		return fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %s", c.JWTAccessTokenTTL)
	}

	// bcrypt rejects costs outside [4, 31]
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("invalid BCRYPT_COST: %d", c.BcryptCost)
	}

	return nil
}
