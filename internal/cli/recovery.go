package cli

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/savemoney-app/savemoney/internal/common"
)

func recoverCmd(f *appFactory) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Issue a password recovery token (valid for one hour)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := f.get(cmd.Context())
			if err != nil {
				return err
			}
			u, err := app.Auth.GetUser(cmd.Context(), email)
			if err != nil {
				return err
			}
			if u == nil {
				color.Red("No account with that email on this device.")
				return common.ErrNotFound
			}
			token, err := app.Auth.GenerateRecoveryToken(cmd.Context(), u.ID)
			if err != nil {
				return err
			}
			// Delivery is out of band; print it where a mail hook would pick
			// it up.
			cmd.Printf("Recovery token: %s\n", token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func resetPasswordCmd(f *appFactory) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset the password using a recovery token",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := f.get(cmd.Context())
			if err != nil {
				return err
			}
			pw, err := GetPassword(cmd.OutOrStdout(), "New password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			var ok bool
			err = withMinDuration("resetting password", MinOperationDelay, func() error {
				var err error
				ok, err = app.Auth.ResetPassword(cmd.Context(), token, string(pw))
				return err
			})
			if err != nil {
				return err
			}
			if !ok {
				color.Red("Invalid or expired recovery token.")
				return errors.New("password reset rejected")
			}
			color.Green("Password updated")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "recovery token")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}
