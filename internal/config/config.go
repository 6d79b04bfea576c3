// Package config loads the TOML configuration file and overlays secrets
// from a .env-style file and the shell environment. Shell variables take
// precedence over the secrets file.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultPath is where the config file lives unless --config says
	// otherwise.
	DefaultPath = "config.toml"

	defaultSecretsPath = "secrets"
)

// Config is the resolved configuration tree.
type Config struct {
	Site     Site             `toml:"site"`
	Database Database         `toml:"database"`
	Venues   map[string]Venue `toml:"venues"`
	Secrets  Secrets          `toml:"-"`
}

// Site configures the static site generator.
type Site struct {
	Title     string `toml:"title"`
	BaseURL   string `toml:"base_url"`
	OutputDir string `toml:"output_dir"`
	DaysAhead int    `toml:"days_ahead"`
}

// Database configures the event store.
type Database struct {
	Path string `toml:"path"`
}

// Venue is one [venues.<key>] section.
type Venue struct {
	URL  string `toml:"url"`
	City string `toml:"city"`
	// Enabled defaults to true when absent.
	Enabled *bool `toml:"enabled"`
}

// IsEnabled reports whether the venue should be scraped.
func (v Venue) IsEnabled() bool {
	return v.Enabled == nil || *v.Enabled
}

// Secrets holds credentials resolved from the environment, never from the
// TOML file itself.
type Secrets struct {
	TicketmasterAPIKey string
}

// Load reads the TOML config at path and resolves secrets.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/events.db"
	}
	if cfg.Site.OutputDir == "" {
		cfg.Site.OutputDir = "output"
	}

	if err := loadSecretsFile(defaultSecretsPath); err != nil {
		return nil, err
	}
	cfg.Secrets = Secrets{
		TicketmasterAPIKey: os.Getenv("TICKETMASTER_API_KEY"),
	}
	return &cfg, nil
}

// EnabledVenues returns the venue sections with enabled != false.
func (c *Config) EnabledVenues() map[string]Venue {
	enabled := make(map[string]Venue, len(c.Venues))
	for key, v := range c.Venues {
		if v.IsEnabled() {
			enabled[key] = v
		}
	}
	return enabled
}

// loadSecretsFile parses KEY=VALUE lines into the process environment,
// skipping keys the shell already set. A missing file is fine.
func loadSecretsFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening secrets file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || !strings.Contains(line, "=") {
			continue
		}
		key, value, _ := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if _, set := os.LookupEnv(key); !set {
			os.Setenv(key, value)
		}
	}
	return sc.Err()
}
