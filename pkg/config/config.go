package config

import (
	"errors"
	"os"
	"time"

	env "github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort         int      `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN      string   `env:"POSTGRES_DSN"`
	PostgresMaxConns int32    `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	LogLevel         string   `env:"LOG_LEVEL" envDefault:"info"`
	KafkaBrokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic       string   `env:"KAFKA_ACTIVITY_TOPIC" envDefault:"admin.activities"`
	JWT              JWTConfig
	Bootstrap        BootstrapConfig
}

type JWTConfig struct {
	Secret      string        `env:"JWT_SECRET"`
	TokenExpiry time.Duration `env:"JWT_TOKEN_EXPIRY" envDefault:"24h"`
}

// BootstrapConfig seeds the initial admin account on startup so a fresh
// deployment is reachable. Disabled by leaving the email empty.
type BootstrapConfig struct {
	AdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL" envDefault:"admin@sicada.dz"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD" envDefault:"admin123"`
	AdminName     string `env:"BOOTSTRAP_ADMIN_NAME" envDefault:"System Administrator"`
}

func New(envPath string) (Config, error) {
	var c Config

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	err = env.Parse(&c)
	if err != nil {
		return Config{}, err
	}

	if c.JWT.Secret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	if c.PostgresDSN == "" {
		return Config{}, errors.New("POSTGRES_DSN is required")
	}

	return c, nil
}
