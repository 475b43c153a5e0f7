package config

import (
	"flag"
	"os"
	"time"

	"github.com/savemoney-app/savemoney/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   data directory (default from Config)
//	-k string   key backend: keyring or file
//	-t int      session TTL in hours
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with cobra's own parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-k", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.KeyBackend, "k", cfg.KeyBackend, "key backend (keyring|file)")
	sessionTTL := fs.Int("t", int(cfg.SessionTTL.Hours()), "session TTL (in hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SessionTTL = time.Duration(*sessionTTL) * time.Hour
}
