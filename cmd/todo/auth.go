package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/validate"
)

type credentialFlags struct {
	email    string
	password string
	confirm  string
}

func (c *cli) signInCmd() *cobra.Command {
	var f credentialFlags
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			email := ask(in, cmd.OutOrStdout(), "Email: ", f.email)
			password := askSecret(in, cmd.OutOrStdout(), "Password: ", f.password)
			if errs := validate.SignIn(email, password); !errs.Valid() {
				return validationError(errs, validate.FieldEmail, validate.FieldPassword)
			}
			if err := c.app.Session.Login(cmd.Context(), email, password); err != nil {
				return err
			}
			c.app.Notifier.Success("Signed in successfully!")
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "account password (prompted when omitted)")
	return cmd
}

func (c *cli) signUpCmd() *cobra.Command {
	var f credentialFlags
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()
			email := ask(in, out, "Email: ", f.email)
			password := askSecret(in, out, "Password: ", f.password)
			confirm := askSecret(in, out, "Confirm password: ", f.confirm)
			if errs := validate.SignUp(email, password, confirm); !errs.Valid() {
				return validationError(errs, validate.FieldEmail, validate.FieldPassword, validate.FieldConfirmPassword)
			}
			if err := c.app.Session.Register(cmd.Context(), email, password); err != nil {
				return err
			}
			c.app.Notifier.Success("Account created successfully!")
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "account password (prompted when omitted)")
	cmd.Flags().StringVar(&f.confirm, "confirm", "", "password confirmation (prompted when omitted)")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			state := c.app.Session.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Email:   %s\n", state.User.DisplayName())
			if state.UserID.IsZero() {
				fmt.Fprintln(out, "User ID: unknown")
			} else {
				fmt.Fprintf(out, "User ID: %s\n", state.UserID)
			}
			return nil
		},
	}
}

// ask returns preset when given, otherwise prompts for one trimmed line.
func ask(in *bufio.Reader, out io.Writer, label, preset string) string {
	return strings.TrimSpace(askSecret(in, out, label, preset))
}

// askSecret is ask without trimming: spaces are part of a password.
func askSecret(in *bufio.Reader, out io.Writer, label, preset string) string {
	if preset != "" {
		return preset
	}
	fmt.Fprint(out, label)
	line, _ := in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func validationError(errs validate.Errors, order ...string) error {
	parts := make([]string, 0, len(errs))
	for _, field := range order {
		if msg, ok := errs[field]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
		}
	}
	return domain.NewError(domain.ErrCodeValidation, strings.Join(parts, "; "))
}
