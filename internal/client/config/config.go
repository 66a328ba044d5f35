// Package config loads runtime settings for the assettrack CLI. Sources, in
// increasing precedence: defaults, a JSON file named by -c / -config, the
// ASSETTRACK_SERVER_URL and ASSETTRACK_TIMEOUT environment variables, and
// the -a / -timeout flags.
package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config from defaults, JSON, the environment and
// args (usually os.Args[1:]), later sources overriding earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("server url must not be empty")
	}
	return cfg, nil
}

func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("ASSETTRACK_SERVER_URL"); ok && v != "" {
		cfg.ServerURL = v
	}
	if v, ok := lookup("ASSETTRACK_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ASSETTRACK_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
