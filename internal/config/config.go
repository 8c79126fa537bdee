package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Lapak"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Store struct {
		// Driver selects the persistence backend: postgres, sqlite or memory.
		Driver string `envconfig:"STORE_DRIVER" default:"sqlite"`
		// Path is the database file used by the sqlite driver.
		Path string `envconfig:"STORE_PATH" default:"lapak.db"`

		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"lapak"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Advisor struct {
		APIKey  string        `envconfig:"GEMINI_API_KEY"`
		Model   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
		Timeout time.Duration `envconfig:"ADVISOR_TIMEOUT" default:"30s"`
	}
}

// DSN returns the connection string for the configured store driver.
func (c *Config) DSN() string {
	switch c.Store.Driver {
	case "postgres":
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.Store.User, c.Store.Password, c.Store.Host, c.Store.Port, c.Store.Name)
	default:
		return c.Store.Path
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
