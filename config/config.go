// Package config loads connection, logging and migration settings from a YAML
// file, an optional .env file and the environment.
//
// Precedence, lowest first: defaults, YAML file, environment. A .env file
// only fills variables the environment does not already define.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"nexus.dev/orm"
	"nexus.dev/orm/utils"
)

// Config top level configuration
type Config struct {
	Database   orm.ConnectionConfig `yaml:"database"`
	Log        LogConfig            `yaml:"log"`
	Migrations MigrationsConfig     `yaml:"migrations"`
}

// LogConfig logger settings
type LogConfig struct {
	// Level silent, error, warn or info
	Level string `yaml:"level"`
	// Format text, json (zap), console (zerolog) or logrus
	Format        string        `yaml:"format"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
	Parameterized bool          `yaml:"parameterized"`
}

// MigrationsConfig migrator settings
type MigrationsConfig struct {
	// Table ledger table name
	Table string `yaml:"table"`
	// Dir directory of .up.sql/.down.sql files, optional
	Dir string `yaml:"dir"`
}

// Load reads envFile (when it exists) and path (when not empty), then applies
// the environment overrides
func Load(path string, envFile ...string) (*Config, error) {
	files := envFile
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Default returns the default configuration, a sqlite database under database/
func Default() *Config {
	return &Config{
		Database: orm.ConnectionConfig{
			Driver:   "sqlite",
			Host:     "localhost",
			Database: "database/database.sqlite",
		},
		Log: LogConfig{
			Level:         "warn",
			Format:        "text",
			SlowThreshold: 200 * time.Millisecond,
		},
		Migrations: MigrationsConfig{
			Table: "migrations",
		},
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("DB_PORT: %w", err)
		}
		cfg.Database.Port = port
	}
	if v := os.Getenv("DB_DATABASE"); v != "" {
		cfg.Database.Database = v
	}
	if v := os.Getenv("DB_USERNAME"); v != "" {
		cfg.Database.Username = v
	}
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		cfg.Database.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v, ok := os.LookupEnv("LOG_PARAMETERIZED"); ok {
		cfg.Log.Parameterized = utils.CheckTruth(v)
	}
	return nil
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "mysql", "mariadb", "postgres", "postgresql", "pgsql", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("database.driver: unsupported driver %q", c.Database.Driver)
	}

	if c.Database.Database == "" {
		return errors.New("database.database is required")
	}

	if c.Database.Port < 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port: %d out of range", c.Database.Port)
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "console", "logrus":
	default:
		return fmt.Errorf("log.format: unsupported format %q", c.Log.Format)
	}

	if c.Migrations.Table == "" {
		return errors.New("migrations.table is required")
	}
	return nil
}
