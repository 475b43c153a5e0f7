package cli

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/savemoney-app/savemoney/internal/auth"
	"github.com/savemoney-app/savemoney/internal/common"
)

func registerCmd(f *appFactory) *cobra.Command {
	var nome, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on this device",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := f.get(cmd.Context())
			if err != nil {
				return err
			}
			pw, err := GetPassword(cmd.OutOrStdout(), "Password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			u := &auth.User{Nome: nome, Email: email, Senha: string(pw)}
			err = withMinDuration("creating account", MinOperationDelay, func() error {
				return app.Auth.SaveUser(cmd.Context(), u)
			})
			if errors.Is(err, common.ErrDuplicateEmail) {
				color.Red("This email is already registered.")
				return err
			}
			if err != nil {
				return err
			}
			color.Green("Account created for %s", u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&nome, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func loginCmd(f *appFactory) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist a local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := f.get(cmd.Context())
			if err != nil {
				return err
			}
			pw, err := GetPassword(cmd.OutOrStdout(), "Password")
			if err != nil {
				return err
			}
			defer common.WipeByteArray(pw)

			var res auth.LoginResult
			err = withMinDuration("logging in", MinOperationDelay, func() error {
				var err error
				res, err = app.Auth.Login(cmd.Context(), email, string(pw))
				return err
			})
			if err != nil {
				return err
			}
			if !res.Success {
				color.Red(res.Message)
				return errors.New("login failed")
			}
			color.Green("Logged in as %s", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(f *appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Destroy the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := f.get(cmd.Context())
			if err != nil {
				return err
			}
			err = withMinDuration("logging out", MinOperationDelay, func() error {
				return app.Auth.Logout(cmd.Context())
			})
			if err != nil {
				return err
			}
			color.Green("Logged out")
			return nil
		},
	}
}

func whoamiCmd(f *appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session user",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := f.get(cmd.Context())
			if err != nil {
				return err
			}
			u, err := app.Auth.GetLoggedUser(cmd.Context())
			if err != nil {
				return err
			}
			if u == nil {
				color.Yellow("Not logged in")
				return nil
			}
			cmd.Printf("%s <%s>\n", u.Nome, u.Email)
			return nil
		},
	}
}
