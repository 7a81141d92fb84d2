// Package config provides YAML-based configuration loading for Switchboard.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Switchboard configuration, loaded from config.yaml.
type Config struct {
	Database DatabaseConfig  `yaml:"database"`
	Server   ServerConfig    `yaml:"server"`
	Alert    AlertConfig     `yaml:"alert"`
	Packages []PackageConfig `yaml:"packages"`
}

// DatabaseConfig holds connection settings for the MySQL server.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// ServerConfig holds admin API listener settings.
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	StoreTimeout Duration `yaml:"store_timeout"`
}

// AlertConfig holds operator notification settings. Platform selects the
// chat adapter; leaving it empty disables the alert daemon.
type AlertConfig struct {
	Platform      string   `yaml:"platform"` // discord or slack
	Token         string   `yaml:"token"`
	Channel       string   `yaml:"channel"`
	DigestCron    string   `yaml:"digest_cron"`
	SweepInterval Duration `yaml:"sweep_interval"`
}

// PackageConfig seeds one billing package row.
type PackageConfig struct {
	Name   string `yaml:"name"`
	Amount string `yaml:"amount"`
}

// Duration parses Go duration strings like "8s" or "5m" from YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("bad duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in default values.
func (c *Config) applyDefaults() {
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Database.Database == "" {
		c.Database.Database = "switchboard"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8089"
	}
	if c.Server.StoreTimeout == 0 {
		c.Server.StoreTimeout = Duration(8 * time.Second)
	}
	if c.Alert.DigestCron == "" {
		c.Alert.DigestCron = "0 9 * * *"
	}
	if c.Alert.SweepInterval == 0 {
		c.Alert.SweepInterval = Duration(5 * time.Minute)
	}
}

// validate checks that all present fields are consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Alert.Platform {
	case "", "discord", "slack":
	default:
		errs = append(errs, fmt.Sprintf("alert.platform %q is not supported (discord or slack)", c.Alert.Platform))
	}
	if c.Alert.Platform != "" {
		if c.Alert.Token == "" {
			errs = append(errs, "alert.token is required when alert.platform is set")
		}
		if c.Alert.Channel == "" {
			errs = append(errs, "alert.channel is required when alert.platform is set")
		}
	}
	for i, p := range c.Packages {
		if p.Name == "" {
			errs = append(errs, fmt.Sprintf("packages[%d].name is required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
