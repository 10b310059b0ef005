package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/culinarycompanion/culinary/internal/cli/commands"
	"github.com/spf13/cobra"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps commands.Deps) *cobra.Command {
	if deps.Version == "" {
		deps.Version = version
	}
	app := commands.NewApp(deps)

	rootCmd := &cobra.Command{
		Use:   "culinary",
		Short: "Culinary Companion - recipes, ratings and your pantry",
		Long: `Culinary Companion CLI - Share recipes, rate them and cook from your pantry.

Sign in with 'culinary login'. Your session is kept in the system keyring
(or a credentials file with CULINARY_TOKEN_STORE=file) and restored on
every command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return app.Setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.Flags.APIURL, "api-url", "", "Backend API URL (or set CULINARY_API_URL)")
	rootCmd.PersistentFlags().StringVarP(&app.Flags.Output, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&app.Flags.LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error (or set LOG_LEVEL)")

	// Public commands
	rootCmd.AddCommand(commands.NewVersionCmd(app))
	rootCmd.AddCommand(commands.NewLoginCmd(app))
	rootCmd.AddCommand(commands.NewSignupCmd(app))
	rootCmd.AddCommand(commands.NewLogoutCmd(app))

	// Commands that need a signed-in user
	rootCmd.AddCommand(app.Protected(commands.NewWhoamiCmd(app)))
	rootCmd.AddCommand(app.Protected(commands.NewRecipesCmd(app)))
	rootCmd.AddCommand(app.Protected(commands.NewIngredientsCmd(app)))
	rootCmd.AddCommand(app.Protected(commands.NewPantryCmd(app)))
	rootCmd.AddCommand(app.Protected(commands.NewRecsCmd(app)))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(commands.Deps{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
