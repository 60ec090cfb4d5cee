package main

import (
	"fmt"
	"os"

	"github.com/nickyhof/CommitFrame/ps"
	"gopkg.in/yaml.v3"
)

// Config is the server configuration file.
type Config struct {
	Port int        `yaml:"port"`
	TLS  TLSConfig  `yaml:"tls"`
	Auth AuthConfig `yaml:"auth"`
	// Sources configure how LOAD and SAVE reach files, URLs, S3 and git.
	Sources ps.Options `yaml:"sources"`
}

type TLSConfig struct {
	CertFile string `yaml:"certFile"`
	KeyFile  string `yaml:"keyFile"`
}

func (c TLSConfig) Enabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{Port: 3306}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate checks settings that would otherwise fail at the first
// connection.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth is enabled but no jwtSecret is set")
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return fmt.Errorf("tls needs both certFile and keyFile")
	}
	return nil
}
