// Package config loads the pipeline configuration from YAML with environment
// overrides for secrets.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/notify"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/report"
)

// Config holds all configuration for one pipeline run.
type Config struct {
	Reports    []ReportSource            `yaml:"reports"`
	Senders    []string                  `yaml:"senders"`
	Catalogs   map[report.Brand]string   `yaml:"catalogs"`
	IgnoreSKUs map[report.Brand][]string `yaml:"ignore_skus"`
	Fx         FxConfig                  `yaml:"fx"`
	Fetch      FetchConfig               `yaml:"fetch"`
	Gmail      GmailConfig               `yaml:"gmail"`
	Session    SessionConfig             `yaml:"session"`
	Notify     notify.Config             `yaml:"notify"`
	OutputDir  string                    `yaml:"output_dir"`
}

// ReportSource names one report to locate and the identity its rows carry.
type ReportSource struct {
	DisplayName string          `yaml:"display_name"`
	Identity    report.Identity `yaml:",inline"`
}

// FxConfig holds currency conversion rates. Point-in-time approximations,
// deliberately configuration rather than a live lookup.
type FxConfig struct {
	CADToUSD float64 `yaml:"cad_to_usd"`
}

// FetchConfig bounds the download retry loop.
type FetchConfig struct {
	MaxAttempts  int `yaml:"max_attempts"`
	DelaySeconds int `yaml:"delay_seconds"`
}

// Delay returns the configured inter-attempt sleep.
func (f FetchConfig) Delay() time.Duration {
	return time.Duration(f.DelaySeconds) * time.Second
}

// GmailConfig holds the OAuth client for the mailbox. The refresh token comes
// from the external authorization flow.
type GmailConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
}

// SessionConfig seeds the authenticated download session with cookies
// exported by the external interactive login.
type SessionConfig struct {
	Cookies map[string]string `yaml:"cookies"`
}

// Load reads and validates a YAML config file, filling defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Fx.CADToUSD == 0 {
		cfg.Fx.CADToUSD = 0.76
	}
	if cfg.Fetch.MaxAttempts == 0 {
		cfg.Fetch.MaxAttempts = 3
	}
	if cfg.Fetch.DelaySeconds == 0 {
		cfg.Fetch.DelaySeconds = 5
	}
	if cfg.Notify.Region == "" {
		cfg.Notify.Region = "us-west-2"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads the config file and applies environment overrides for
// secrets. A .env file is honored when present.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.Notify.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.Notify.SecretKey = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.Notify.Region = v
	}
	if v := os.Getenv("GMAIL_CLIENT_ID"); v != "" {
		cfg.Gmail.ClientID = v
	}
	if v := os.Getenv("GMAIL_CLIENT_SECRET"); v != "" {
		cfg.Gmail.ClientSecret = v
	}
	if v := os.Getenv("GMAIL_REFRESH_TOKEN"); v != "" {
		cfg.Gmail.RefreshToken = v
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.Reports) == 0 {
		return fmt.Errorf("config: no reports defined")
	}

	var problems []string
	for _, r := range c.Reports {
		if r.DisplayName == "" {
			problems = append(problems, fmt.Sprintf("report %s: missing display_name", r.Identity))
		}
		if err := r.Identity.Validate(); err != nil {
			problems = append(problems, err.Error())
		}
		if _, ok := c.Catalogs[r.Identity.Brand]; !ok {
			problems = append(problems, fmt.Sprintf("report %s: no catalog source for brand %s", r.Identity, r.Identity.Brand))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}
