package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipe-finder/internal/app"
	"recipe-finder/internal/config"
	"recipe-finder/internal/logging"
)

var (
	cfg     *config.Config
	logger  *zap.Logger
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "recipe-finder",
	Short: "Find recipes by ingredient and keep a shopping list",
	Long: `recipe-finder matches recipes against 2 to 5 selected ingredients,
keeps favorite recipes and a shopping list.

Configuration comes from the environment (DATABASE_PATH, SHOPPING_STORE,
FAVORITES_URL, ...). Run "recipe-finder serve" for the HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.NewFromEnv()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if verbose {
			cfg.LogLevel = "debug"
		}

		logger, err = logging.New(cfg.LogLevel)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingredientsCmd, recipesCmd, searchCmd, importCatalogCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(favoritesCmd)
}

// withApp builds the app for one command and closes it afterwards, which
// waits for the command's writes to finish.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) (err error) {
	a, err := app.Build(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close app: %w", cerr)
		}
	}()
	return fn(a)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
