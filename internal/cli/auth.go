package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/shiftboard/pkg/dashsdk"
)

func newLoginCommand(e *env) *cobra.Command {
	var (
		email         string
		password      string
		passwordStdin bool
		otp           string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		Long: `Sign in with email and password. Accounts with a second factor need
--otp, or SHIFTBOARD_TOTP_SECRET to generate the code locally.

A non-dashboard role (anything other than ADMIN or MANAGER) still signs in,
but the session is marked as denied and cannot read dashboard data.

Examples:
  shiftctl login --email manager@shiftboard.dev --password shiftboard
  echo "$PASSWORD" | shiftctl login --email admin@shiftboard.dev --password-stdin --otp 123456`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			if passwordStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password from stdin: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return fmt.Errorf("--password or --password-stdin is required")
			}

			var opts []dashsdk.LoginOption
			switch {
			case otp != "":
				opts = append(opts, dashsdk.WithOTP(otp))
			case e.cfg.TOTPSecret != "":
				opts = append(opts, dashsdk.WithTOTPSecret(e.cfg.TOTPSecret))
			}

			sess, err := e.manager.Login(cmd.Context(), email, password, opts...)
			switch {
			case errors.Is(err, dashsdk.ErrMFARequired):
				return fmt.Errorf("login failed: this account needs a one-time code (--otp)")
			case err != nil:
				return fmt.Errorf("login failed: %w", err)
			}

			if !e.json {
				if sess.Authorized {
					fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s).\n", sess.User.Email, sess.User.Role)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s, but dashboard access is denied: %s\n",
						sess.User.Email, sess.Denial)
				}
				return nil
			}
			return printSession(cmd.OutOrStdout(), true, sess)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	cmd.Flags().StringVar(&otp, "otp", "", "one-time code for accounts with a second factor")
	return cmd
}

func newLogoutCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e.manager.Logout(cmd.Context())
			if !e.json {
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			}
			return nil
		},
	}
}

func newStatusCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Long: `Show who is signed in, their role and when the access token expires.
An expired session is refreshed first when possible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSession(cmd.OutOrStdout(), e.json, e.manager.Session())
		},
	}
}

func newRefreshCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the refresh token now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := e.manager.Refresh(cmd.Context(), "")
			switch {
			case errors.Is(err, dashsdk.ErrNoRefreshToken):
				return fmt.Errorf("not logged in")
			case errors.Is(err, dashsdk.ErrRefreshRejected):
				return fmt.Errorf("session expired, log in again: %w", err)
			case err != nil:
				return fmt.Errorf("refresh failed: %w", err)
			}
			return printSession(cmd.OutOrStdout(), e.json, sess)
		},
	}
}
