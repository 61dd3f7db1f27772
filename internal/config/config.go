// Package config holds the application configuration. A single Config is
// built in main and passed to the components that need it; there is no
// process-wide settings global.
package config

import (
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Google   GoogleConfig   `yaml:"google"`
	Calendar CalendarConfig `yaml:"calendar"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// DatabaseConfig selects the backing database. A postgres:// DSN targets
// PostgreSQL; anything else is treated as a SQLite path.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// GoogleConfig carries the OAuth application credentials. AuthURL and
// TokenURL default to Google's endpoints when empty.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
	AuthURL      string `yaml:"auth_url"`
	TokenURL     string `yaml:"token_url"`
}

// CalendarConfig selects the calendar events are read from and written to,
// and the time zone used for day boundaries.
type CalendarConfig struct {
	ID       string `yaml:"id"`
	TimeZone string `yaml:"time_zone"`
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence. A .env file in the
// working directory is loaded into the environment first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server:   ServerConfig{Host: "127.0.0.1", Port: "8000"},
		Database: DatabaseConfig{DSN: "secretaria.db"},
		Google: GoogleConfig{
			RedirectURL: "http://localhost:8000/api/v1/calendar/oauth2callback",
		},
		Calendar: CalendarConfig{ID: "primary", TimeZone: "America/Sao_Paulo"},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Server.Host, "SECRETARIA_HOST")
	setFromEnv(&cfg.Server.Port, "SECRETARIA_PORT")
	setFromEnv(&cfg.Database.DSN, "SECRETARIA_DB_DSN")
	setFromEnv(&cfg.Google.ClientID, "GOOGLE_CALENDAR_CLIENT_ID")
	setFromEnv(&cfg.Google.ClientSecret, "GOOGLE_CALENDAR_CLIENT_SECRET")
	setFromEnv(&cfg.Google.RedirectURL, "GOOGLE_CALENDAR_REDIRECT_URI")
	setFromEnv(&cfg.Calendar.ID, "SECRETARIA_CALENDAR_ID")
	setFromEnv(&cfg.Calendar.TimeZone, "SECRETARIA_CALENDAR_TIMEZONE")
}

func setFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
