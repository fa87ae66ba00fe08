// Package config loads scan defaults from an optional YAML file. Values set
// on the command line take precedence over the file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"sigs.k8s.io/yaml"
)

// Defaults applied when neither the file nor a flag sets a value.
const (
	DefaultWorkers       = 100
	DefaultDirectTimeout = 1 * time.Second
	DefaultProxyTimeout  = 2 * time.Second
)

// File is the on-disk shape of the config. Durations use Go syntax ("1s",
// "1500ms").
type File struct {
	Workers       int      `json:"workers,omitempty"`
	DirectTimeout string   `json:"directTimeout,omitempty"`
	ProxyTimeout  string   `json:"proxyTimeout,omitempty"`
	Proxies       []string `json:"proxies,omitempty"`
	NoColor       bool     `json:"noColor,omitempty"`
	NoProgress    bool     `json:"noProgress,omitempty"`
}

// Config is the resolved scan configuration.
type Config struct {
	Workers       int
	DirectTimeout time.Duration
	ProxyTimeout  time.Duration
	Proxies       []string
	NoColor       bool
	NoProgress    bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Workers:       DefaultWorkers,
		DirectTimeout: DefaultDirectTimeout,
		ProxyTimeout:  DefaultProxyTimeout,
	}
}

// Load reads path and applies it over Default. An empty path yields the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML (or JSON) config data over Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	var f File
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if f.Workers < 0 {
		return cfg, fmt.Errorf("workers must be positive, got %d", f.Workers)
	}
	if f.Workers > 0 {
		cfg.Workers = f.Workers
	}
	var err error
	if cfg.DirectTimeout, err = parseTimeout("directTimeout", f.DirectTimeout, cfg.DirectTimeout); err != nil {
		return cfg, err
	}
	if cfg.ProxyTimeout, err = parseTimeout("proxyTimeout", f.ProxyTimeout, cfg.ProxyTimeout); err != nil {
		return cfg, err
	}
	for _, p := range f.Proxies {
		if p = strings.TrimSpace(p); p != "" {
			cfg.Proxies = append(cfg.Proxies, p)
		}
	}
	cfg.NoColor = f.NoColor
	cfg.NoProgress = f.NoProgress
	return cfg, nil
}

func parseTimeout(name, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def, fmt.Errorf("%s: %w", name, err)
	}
	if d <= 0 {
		return def, fmt.Errorf("%s must be positive, got %s", name, s)
	}
	return d, nil
}
