package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

type LogOptions struct {
	Level    string `env:"LOG_LEVEL" envDefault:"info"`
	Format   string `env:"LOG_FORMAT" envDefault:"text"` // text or json
	File     string `env:"LOG_FILE"`
	SQLLevel string `env:"SQL_LOG_LEVEL" envDefault:"warn"` // silent, error, warn, info
}

type MetricsOptions struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

type Config struct {
	DatabaseURL    string         `env:"DATABASE_URL" envDefault:"taskboard.db"`
	MaxOpenConns   int            `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	JWTSecret      string         `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	Port           string         `env:"PORT" envDefault:"8080"`
	RequestTimeout time.Duration  `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	DefaultColumns []string       `env:"DEFAULT_BOARD_COLUMNS" envSeparator:"," envDefault:"To Do,In Progress,Done"`
	Log            LogOptions
	Metrics        MetricsOptions
}

// Load reads the given env files (missing ones are skipped) and parses the environment.
func Load(envFiles ...string) (*Config, error) {
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, errors.Wrap(err, "load env files")
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return errors.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("LOG_FORMAT must be 'text' or 'json', got '%s'", c.Log.Format)
	}
	switch c.Log.SQLLevel {
	case "silent", "error", "warn", "info":
	default:
		return errors.Errorf("SQL_LOG_LEVEL must be one of silent, error, warn, info, got '%s'", c.Log.SQLLevel)
	}
	return nil
}

// IsPostgres reports whether DatabaseURL selects the PostgreSQL driver.
func (c *Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres")
}
