package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/savemoney-app/savemoney/internal/config"
	"github.com/savemoney-app/savemoney/internal/logging"
)

// Execute runs the command tree against the given configuration. The service
// graph is built lazily on first use and torn down on exit.
func Execute(cfg *config.Config) error {
	log := logging.NewTextLogger(os.Stderr, slog.LevelWarn)
	f := &appFactory{cfg: cfg, log: log}
	defer f.close()

	root := &cobra.Command{
		Use:           "savemoney",
		Short:         "Device-bound encrypted personal finances",
		Long:          "savemoney keeps accounts, incomes, expenses and investments encrypted\nat rest under a key derived from this device. Nothing leaves the machine.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Accept the flags package config already consumed, so cobra does not
	// reject them.
	pf := root.PersistentFlags()
	pf.StringP("data-dir", "d", "", "data directory")
	pf.StringP("key-backend", "k", "", "key backend (keyring|file)")
	pf.IntP("session-ttl", "t", 0, "session TTL (hours)")
	pf.StringP("config", "c", "", "path to JSON config file")

	root.AddCommand(
		registerCmd(f),
		loginCmd(f),
		logoutCmd(f),
		whoamiCmd(f),
		recoverCmd(f),
		resetPasswordCmd(f),
		incomeCmd(f),
		expenseCmd(f),
		investmentCmd(f),
	)

	return root.ExecuteContext(context.Background())
}
