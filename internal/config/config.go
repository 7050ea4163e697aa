package config

import (
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// defaultStoreDirName is created under the user's home directory when no
// location is configured.
const defaultStoreDirName = ".passtis-store"

// defaultClipboardTTL is the exposure window for secrets copied to the
// clipboard.
const defaultClipboardTTL = 30 * time.Second

type Config struct {
	// Dir is the store location.
	Dir string `env:"PASSTIS_DIR"`
	// ClipboardTTL is how long a secret stays in the clipboard before the
	// detached timer erases it.
	ClipboardTTL time.Duration `env:"PASSTIS_CLIPBOARD_TTL"`
	// Verbose enables debug logging of engine and store activity.
	Verbose bool `env:"PASSTIS_VERBOSE"`
	// Version makes the binary print its version and exit (flag only).
	Version bool `env:"-"`
}

// NewConfig loads the configuration: .env file first, then environment
// variables, then flags (flags only override what env left unset),
// defaults last.
func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	flag.StringVar(&cfg.Dir, "dir", cfg.Dir, "store location")
	flag.DurationVar(&cfg.ClipboardTTL, "clipboard-ttl", cfg.ClipboardTTL, "clipboard exposure window")
	flag.BoolVar(&cfg.Verbose, "V", cfg.Verbose, "display engine debug information")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "show version and exit")

	flag.Parse()

	if cfg.Dir == "" {
		home, _ := os.UserHomeDir()
		cfg.Dir = filepath.Join(home, defaultStoreDirName)
	}
	if cfg.ClipboardTTL <= 0 {
		cfg.ClipboardTTL = defaultClipboardTTL
	}

	return cfg
}
