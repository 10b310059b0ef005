package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/culinarycompanion/culinary/internal/cli/identity"
	"github.com/spf13/cobra"
)

// NewLoginCmd creates the login command
func NewLoginCmd(app *App) *cobra.Command {
	var email, password, token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to Culinary Companion",
		Long: `Sign in with your email and password.

An identity token obtained elsewhere (for example from a Google sign-in)
can be supplied with --token instead of a password.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, app, email, password, token)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set CULINARY_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set CULINARY_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&token, "token", "", "Use an existing identity token instead of a password")

	return cmd
}

func runLogin(cmd *cobra.Command, app *App, email, password, token string) error {
	ctx := cmd.Context()

	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("CULINARY_EMAIL")
	}
	if password == "" {
		password = os.Getenv("CULINARY_PASSWORD")
	}
	email = strings.TrimSpace(email)

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or CULINARY_EMAIL env var)")
	}

	if token == "" {
		if password == "" {
			if !app.interactive() {
				return fmt.Errorf("password is required in non-interactive mode (use --password flag or CULINARY_PASSWORD env var)")
			}
			p, err := app.readPassword("Password: ")
			if err != nil {
				return err
			}
			password = p
		}

		cred, err := app.Identity.SignIn(ctx, email, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		token = cred.Token
		if cred.Username != "" {
			email = cred.Username
		}
	}

	app.printf(cmd, "Logging in to %s as %s...\n", app.Config.API.URL, email)

	if err := app.Session.Login(ctx, email, token); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	current := app.Session.Current()
	if app.Printer.Structured() {
		return app.Printer.Print(current)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Login successful!")
	fmt.Fprintf(cmd.OutOrStdout(), "  User: %s\n", displayName(current.FullName, current.Username))
	return nil
}

// NewSignupCmd creates the signup command
func NewSignupCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a Culinary Companion account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSignup(cmd, app, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set CULINARY_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set CULINARY_PASSWORD, will prompt if not provided)")

	return cmd
}

func runSignup(cmd *cobra.Command, app *App, email, password string) error {
	if email == "" {
		email = os.Getenv("CULINARY_EMAIL")
	}
	if password == "" {
		password = os.Getenv("CULINARY_PASSWORD")
	}
	email = strings.TrimSpace(email)

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or CULINARY_EMAIL env var)")
	}

	if password == "" {
		if !app.interactive() {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or CULINARY_PASSWORD env var)")
		}
		p, err := app.readPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := app.readPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if p != confirm {
			return fmt.Errorf("passwords do not match")
		}
		password = p
	}

	if _, err := app.Identity.SignUp(cmd.Context(), email, password); err != nil {
		if errors.Is(err, identity.ErrEmailExists) {
			return fmt.Errorf("signup failed: %w. Run 'culinary login' instead", err)
		}
		return fmt.Errorf("signup failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Account created for %s\n", email)
	fmt.Fprintln(cmd.OutOrStdout(), "  Run 'culinary login' to sign in")
	return nil
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
			return nil
		},
	}
}

// NewVersionCmd creates the version command
func NewVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "culinary version %s\n", app.Version())
		},
	}
}

func displayName(fullName, username string) string {
	if fullName == "" {
		return username
	}
	return fmt.Sprintf("%s (%s)", fullName, username)
}
