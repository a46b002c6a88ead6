// Package config loads types.Config from config.yaml, a .env file, and
// NEXTLEVEL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// EnvPrefix prefixes every environment override, as in
	// NEXTLEVEL_DATABASE_URL.
	EnvPrefix = "NEXTLEVEL"

	// DotEnvFile is read from the working directory before the environment
	// is consulted. Variables already set win over the file.
	DotEnvFile = ".env"
)

// Config keys.
const (
	KeyDatabaseURL = "database_url"
	KeyAuthToken   = "auth_token"
	KeyAccountID   = "account_id"
	KeyLogLevel    = "log_level"
	KeyDataDir     = "data_dir"
)

// DefaultLogLevel applies when log_level is not set.
const DefaultLogLevel = "warn"

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# nextlevel configuration
# Every key can be overridden with a NEXTLEVEL_<KEY> environment variable.

# Remote database endpoint (libsql://, https://, or http://)
# database_url:

# Bearer token for the endpoint
# auth_token:

# Account all records are scoped to
account_id: 1

# debug, info, warn, or error
log_level: warn

# Database directory for "nextlevel serve" (optional)
# data_dir:
`

// Load reads the configuration rooted at configDir. It creates the
// directory and a default config.yaml on first run. A missing config.yaml
// is not an error. The result is not validated.
func Load(configDir string) (types.Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}
	if err := loadDotEnv(DotEnvFile); err != nil {
		return types.Config{}, err
	}

	v := newViper()
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.AuthToken = strings.TrimSpace(cfg.AuthToken)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyDatabaseURL, "")
	v.SetDefault(KeyAuthToken, "")
	v.SetDefault(KeyAccountID, types.DefaultAccountID)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyDataDir, "")
	return v
}

// loadDotEnv loads path into the process environment when it exists.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// ParseLevel maps a log_level value to a slog level. Blank means
// DefaultLogLevel.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", DefaultLogLevel:
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", types.ErrLogLevelUnknown, s)
	}
}
