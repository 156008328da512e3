// Package config loads the portfolio settings from the environment,
// optionally seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kevelmun/portfolio/internal/contact"
	"github.com/kevelmun/portfolio/internal/terminal"
)

// -----------------------------------------------------------------------------
// Environment Variables
// -----------------------------------------------------------------------------

const (
	EnvPort             = "PORT"
	EnvDatabasePath     = "DATABASE_PATH"
	EnvContentPath      = "CONTENT_PATH"
	EnvCVPath           = "CV_PATH"
	EnvTypingPeriod     = "TYPING_PERIOD"
	EnvGinMode          = "GIN_MODE"
	EnvLogLevel         = "LOG_LEVEL"
	EnvSMTPHost         = "SMTP_HOST"
	EnvSMTPPort         = "SMTP_PORT"
	EnvSMTPUser         = "SMTP_USER"
	EnvSMTPPass         = "SMTP_PASS"
	EnvToEmail          = "TO_EMAIL"
	EnvAdminUsername    = "ADMIN_USERNAME"
	EnvAdminPassword    = "ADMIN_PASSWORD"
	EnvVisitorRetention = "VISITOR_RETENTION"
)

// -----------------------------------------------------------------------------
// Defaults
// -----------------------------------------------------------------------------

const (
	DefaultPort             = "8080"
	DefaultDatabasePath     = "portfolio.db"
	DefaultGinMode          = "release"
	DefaultSMTPHost         = "smtp.gmail.com"
	DefaultSMTPPort         = "587"
	DefaultAdminUsername    = "admin"
	DefaultVisitorRetention = 365 * 24 * time.Hour
)

// AdminConfig holds the dashboard credentials. An empty password disables
// the admin routes.
type AdminConfig struct {
	Username string
	Password string
}

// Enabled reports whether the admin routes are served.
func (a AdminConfig) Enabled() bool { return a.Password != "" }

// Config is the full runtime configuration.
type Config struct {
	Port             string
	DatabasePath     string
	ContentPath      string
	CVPath           string
	TypingPeriod     time.Duration
	GinMode          string
	LogLevel         slog.Level
	SMTP             contact.SMTPConfig
	Admin            AdminConfig
	VisitorRetention time.Duration
}

// Addr returns the listen address.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// Load reads the given .env files (default ".env"; missing files are
// ignored) into the process environment without overriding variables that
// are already set, then parses the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults and reporting
// every malformed value.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:         get(EnvPort, DefaultPort),
		DatabasePath: get(EnvDatabasePath, DefaultDatabasePath),
		ContentPath:  get(EnvContentPath, ""),
		CVPath:       get(EnvCVPath, ""),
		GinMode:      get(EnvGinMode, DefaultGinMode),
		SMTP: contact.SMTPConfig{
			Host: get(EnvSMTPHost, DefaultSMTPHost),
			Port: get(EnvSMTPPort, DefaultSMTPPort),
			User: get(EnvSMTPUser, ""),
			Pass: getenv(EnvSMTPPass),
		},
		Admin: AdminConfig{
			Username: get(EnvAdminUsername, DefaultAdminUsername),
			Password: getenv(EnvAdminPassword),
		},
	}
	cfg.SMTP.To = get(EnvToEmail, cfg.SMTP.User)

	var errs []error
	var err error
	if cfg.TypingPeriod, err = duration(get(EnvTypingPeriod, ""), terminal.DefaultPeriod); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvTypingPeriod, err))
	}
	if cfg.VisitorRetention, err = duration(get(EnvVisitorRetention, ""), DefaultVisitorRetention); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvVisitorRetention, err))
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(get(EnvLogLevel, "info"))); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("%s: unknown mode %q", EnvGinMode, cfg.GinMode))
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func duration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}
