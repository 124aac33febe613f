package config

import "time"

// Config holds runtime settings for the medguide client.
//
// Fields:
//   - DatabasePath: path of the on-device SQLite file.
//   - SecretPath: path of the per-install secret used by the secure store.
//   - SessionCheckInterval: how often the app re-checks the stored session
//     token for expiry while idle.
type Config struct {
	DatabasePath         string
	SecretPath           string
	SessionCheckInterval time.Duration
}

const defaultSessionCheckInterval = 30 * time.Second

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "medguide.db"
	c.SecretPath = "medguide.secret"
	c.SessionCheckInterval = defaultSessionCheckInterval
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)

	// A ticker cannot run on a non-positive interval.
	if cfg.SessionCheckInterval <= 0 {
		cfg.SessionCheckInterval = defaultSessionCheckInterval
	}
	return cfg
}
