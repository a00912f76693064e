package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/blackwell-systems/libconsole/internal/util"
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var (
		email         string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Example: `  libconsole login --email admin@library.com
  echo "$PASSWORD" | libconsole login --email admin@library.com --password-stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := util.NewPrompter(cmd.InOrStdin(), os.Stderr)

			if email == "" {
				if passwordStdin || !interactive() {
					return errors.New("--email is required")
				}
				var err error
				if email, err = p.Line("Email: "); err != nil {
					return err
				}
			}

			var (
				password string
				err      error
			)
			if passwordStdin || !interactive() {
				password, err = p.Line("")
			} else {
				password, err = p.Secret("Password: ")
			}
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			if strings.TrimSpace(email) == "" || password == "" {
				return errors.New("email and password are required")
			}

			if err := store.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			u := store.User()
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), u)
			}
			ok("Signed in as %s (%s)", u.DisplayName(), u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store.Logout(cmd.Context())
			ok("Signed out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(cmd.Context()); err != nil {
				return err
			}
			u := store.User()
			if flagJSON {
				return printJSON(cmd.OutOrStdout(), u)
			}
			header("Account")
			printField("name", u.DisplayName())
			printField("email", u.Email)
			printField("role", u.Role)
			if u.Username != "" {
				printField("username", u.Username)
			}
			return nil
		},
	}
}
