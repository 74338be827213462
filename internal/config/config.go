package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds process-wide settings for the CLI and the HTTP server.
type Config struct {
	DBPath    string `yaml:"db"`
	UserID    string `yaml:"user"`
	GroupID   string `yaml:"group"`
	LogLevel  string `yaml:"log_level"`
	HTTPAddr  string `yaml:"http_addr"`
	SweepSpec string `yaml:"sweep_spec"`
}

// DefaultConfig returns a Config with sensible defaults. The database lives
// under ~/.bugtrail unless home cannot be determined.
func DefaultConfig() Config {
	dbPath := filepath.Join(".bugtrail", "bugtrail.db")
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".bugtrail", "bugtrail.db")
	}
	return Config{
		DBPath:    dbPath,
		UserID:    "local",
		GroupID:   "users",
		LogLevel:  "warn",
		HTTPAddr:  ":8080",
		SweepSpec: "@every 5m",
	}
}

// Load builds the configuration in increasing order of precedence: defaults,
// the YAML file named by BUGTRAIL_CONFIG, then BUGTRAIL_* environment
// variables. A .env file in the working directory is read first if present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := DefaultConfig()
	if path := os.Getenv("BUGTRAIL_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.DBPath, "BUGTRAIL_DB")
	setFromEnv(&c.UserID, "BUGTRAIL_USER")
	setFromEnv(&c.GroupID, "BUGTRAIL_GROUP")
	setFromEnv(&c.LogLevel, "BUGTRAIL_LOG_LEVEL")
	setFromEnv(&c.HTTPAddr, "BUGTRAIL_HTTP_ADDR")
	setFromEnv(&c.SweepSpec, "BUGTRAIL_SWEEP_SPEC")
}

func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("database path is required (set BUGTRAIL_DB)")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// NewLogger builds a production zap logger at the configured level.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
