package config

import (
	"os"
	"path/filepath"
	"time"
)

// Key backends for the device identity.
const (
	KeyBackendKeyring = "keyring" // OS keyring (default)
	KeyBackendFile    = "file"    // plain file in DataDir, for headless machines
)

// Config holds runtime settings for the Save Money CLI.
//
// Fields:
//   - DataDir: directory holding kv.db and collections.db.
//   - KeyBackend: where the device identity lives ("keyring" or "file").
//   - SessionTTL: validity window of the signed session token.
type Config struct {
	DataDir    string
	KeyBackend string
	SessionTTL time.Duration
}

// LoadDefaults populates c with sensible defaults. The data directory is
// placed under the user config dir when available, falling back to the
// current directory.
func (c *Config) LoadDefaults() {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	c.DataDir = filepath.Join(base, "savemoney")
	c.KeyBackend = KeyBackendKeyring
	c.SessionTTL = 30 * 24 * time.Hour
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
