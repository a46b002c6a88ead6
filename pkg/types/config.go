package types

import (
	"errors"
	"strings"
)

// Config holds the parameters needed to reach the remote SQL endpoint.
// DataDir is only read by the local development server.
type Config struct {
	DatabaseURL string `json:"database_url" yaml:"database_url" mapstructure:"database_url"`
	AuthToken   string `json:"auth_token" yaml:"auth_token" mapstructure:"auth_token"`
	AccountID   int64  `json:"account_id" yaml:"account_id" mapstructure:"account_id"`
	LogLevel    string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	DataDir     string `json:"data_dir,omitempty" yaml:"data_dir,omitempty" mapstructure:"data_dir"`
}

// DefaultAccountID is the account used by single-user installations.
const DefaultAccountID int64 = 1

// Config validation errors.
var (
	ErrDatabaseURLEmpty = errors.New("database url must not be empty")
	ErrAuthTokenEmpty   = errors.New("auth token must not be empty")
	ErrAccountIDInvalid = errors.New("account id must be positive")
	ErrLogLevelUnknown  = errors.New("unknown log level")
)

var knownLogLevels = map[string]bool{
	"":      true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return ErrDatabaseURLEmpty
	}
	if strings.TrimSpace(c.AuthToken) == "" {
		return ErrAuthTokenEmpty
	}
	if c.AccountID <= 0 {
		return ErrAccountIDInvalid
	}
	if !knownLogLevels[strings.ToLower(c.LogLevel)] {
		return ErrLogLevelUnknown
	}
	return nil
}
