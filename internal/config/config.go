package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix           = "BOOKINGS"
	defaultHTTPAddress  = "0.0.0.0:8080"
	defaultDatabasePath = "data/bookings.sqlite"
	defaultLogLevel     = "info"
	defaultLogFormat    = "json"
	defaultMonthsAhead  = 6
	maxMonthsAhead      = 36
)

// legacyEnvBindings keeps the unprefixed variable names deployments already set.
var legacyEnvBindings = map[string]string{
	"access.code":           "ACCESS_CODE",
	"calendar.months_ahead": "MONTHS_AHEAD",
	"database.url":          "DATABASE_URL",
}

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress  string
	DatabasePath string
	DatabaseURL  string
	AccessCode   string
	MonthsAhead  int
	LogLevel     string
	LogFormat    string
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

	for key, legacyName := range legacyEnvBindings {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		// Errors only arise for an empty key.
		_ = configViper.BindEnv(key, prefixed, legacyName)
	}

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("database.url", "")
	configViper.SetDefault("access.code", "")
	configViper.SetDefault("calendar.months_ahead", defaultMonthsAhead)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("log.format", defaultLogFormat)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:  strings.TrimSpace(configViper.GetString("http.address")),
		DatabasePath: strings.TrimSpace(configViper.GetString("database.path")),
		DatabaseURL:  strings.TrimSpace(configViper.GetString("database.url")),
		AccessCode:   configViper.GetString("access.code"),
		MonthsAhead:  configViper.GetInt("calendar.months_ahead"),
		LogLevel:     configViper.GetString("log.level"),
		LogFormat:    strings.ToLower(strings.TrimSpace(configViper.GetString("log.format"))),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

// AccessCodeRequired reports whether write operations must present the access code.
func (c AppConfig) AccessCodeRequired() bool {
	return c.AccessCode != ""
}

func (c AppConfig) validate() error {
	if c.HTTPAddress == "" {
		return fmt.Errorf("http.address is required")
	}
	if c.DatabaseURL == "" && c.DatabasePath == "" {
		return fmt.Errorf("database.path is required when database.url is not set")
	}
	if c.MonthsAhead < 1 || c.MonthsAhead > maxMonthsAhead {
		return fmt.Errorf("calendar.months_ahead must be between 1 and %d, got %d", maxMonthsAhead, c.MonthsAhead)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.LogFormat)
	}
	return nil
}
