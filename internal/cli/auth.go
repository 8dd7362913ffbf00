package cli

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"edulearn-cli/internal/api"
	"edulearn-cli/internal/domain"
)

func newLoginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if username == "" {
				return errors.New("--username is required")
			}
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				raw, err := term.ReadPassword(int(syscall.Stdin))
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					return err
				}
				password = string(raw)
			}

			user, err := a.session.Login(cmd.Context(), domain.Credentials{Username: username, Password: password})
			if err != nil {
				return describeAPIError(err)
			}
			a.notifier.Success("logged in as " + user.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke tokens and clear the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			// Revocation failure is swallowed inside Logout; the local
			// session is always cleared.
			a.session.Logout(cmd.Context())
			a.notifier.Success("logged out")
			return nil
		},
	}
}

func newRegisterCmd() *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.client.Register(cmd.Context(), api.RegisterRequest{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return describeAPIError(err)
			}
			a.session.SetUser(user)
			a.notifier.Success("account created; check your inbox for the verification code")
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "desired username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newVerifyEmailCmd() *cobra.Command {
	var email, code string
	cmd := &cobra.Command{
		Use:   "verify-email",
		Short: "Verify an email address with an OTP code",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if code == "" {
				if err := a.client.SendVerification(ctx, email); err != nil {
					return describeAPIError(err)
				}
				a.notifier.Info("verification code sent to " + email)
				return nil
			}
			if err := a.client.VerifyEmail(ctx, email, code); err != nil {
				return describeAPIError(err)
			}
			a.notifier.Success("email verified")
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "email to verify")
	cmd.Flags().StringVar(&code, "code", "", "OTP code (omit to request a new one)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newForgotPasswordCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset code",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.client.ForgotPassword(cmd.Context(), email); err != nil {
				return describeAPIError(err)
			}
			a.notifier.Info("reset code sent to " + email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newResetPasswordCmd() *cobra.Command {
	var email, code, password string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password using a reset code",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.client.ResetPassword(cmd.Context(), email, code, password); err != nil {
				return describeAPIError(err)
			}
			a.notifier.Success("password reset; log in with the new password")
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVar(&code, "code", "", "OTP reset code")
	cmd.Flags().StringVarP(&password, "password", "p", "", "new password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// describeAPIError keeps server field errors readable in the terminal.
func describeAPIError(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		msg := apiErr.Message
		for field, detail := range apiErr.Fields {
			msg += fmt.Sprintf("\n  %s: %s", field, detail)
		}
		return errors.New(msg)
	}
	return err
}
