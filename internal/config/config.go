package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix           = "LOTTERY"
	defaultHTTPAddress  = "0.0.0.0:3000"
	defaultDatabasePath = "lottery.db"
	defaultLogLevel     = "info"
	defaultTokenTTL     = 168 // hours, 7 days

	// DefaultSigningSecret is the documented development fallback. The
	// operator is expected to override it before exposing the service.
	DefaultSigningSecret = "dev-secret-change-me"
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress   string
	DatabasePath  string
	SigningSecret string
	TokenTTL      time.Duration
	LogLevel      string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("auth.signing_secret", DefaultSigningSecret)
	configViper.SetDefault("token.ttl_hours", defaultTokenTTL)
	configViper.SetDefault("log.level", defaultLogLevel)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:   configViper.GetString("http.address"),
		DatabasePath:  configViper.GetString("database.path"),
		SigningSecret: configViper.GetString("auth.signing_secret"),
		TokenTTL:      time.Duration(configViper.GetInt("token.ttl_hours")) * time.Hour,
		LogLevel:      configViper.GetString("log.level"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

// UsesDefaultSecret reports whether the signing secret is still the shipped
// development default.
func (c AppConfig) UsesDefaultSecret() bool {
	return c.SigningSecret == DefaultSigningSecret
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.HTTPAddress) == "" {
		return fmt.Errorf("http.address is required")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	if strings.TrimSpace(c.SigningSecret) == "" {
		return fmt.Errorf("auth.signing_secret is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token.ttl_hours must be positive")
	}
	return nil
}
