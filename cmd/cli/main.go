package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/group-allocation/cmd/cli/commands"
	"github.com/jakechorley/group-allocation/internal/config"
	"github.com/jakechorley/group-allocation/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	app.Ctx = ctx

	rootCmd := &cobra.Command{
		Use:   "group-allocation",
		Short: "Assign persons to equally sized groups by preference",
		Long: `A CLI tool that allocates persons to groups so that every group holds at most
ceil(persons/groups) members and the summed preference of each person for their
group is as high as possible. Runs and their improvements can be recorded in
Postgres or SQLite and published to Google Sheets.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initApp(); err != nil {
				return err
			}
			commands.LogChangedFlags(app.Logger, cmd.Flags())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if err := app.Close(); err != nil && app.Logger != nil {
				app.Logger.Warn("Failed to close run store", zap.Error(err))
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment name selecting config, OAuth client and token files (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")

	rootCmd.AddCommand(commands.SolveCmd(app))
	rootCmd.AddCommand(commands.GenerateCmd(app))
	rootCmd.AddCommand(commands.ListRunsCmd(app))
	rootCmd.AddCommand(commands.ShowRunCmd(app))
	rootCmd.AddCommand(commands.PublishRunCmd(app))

	if err := rootCmd.Execute(); err != nil {
		stop()
		os.Exit(1)
	}
}

// initApp sets up logger and config. The run store and Sheets client are
// opened by the commands that need them.
func initApp() error {
	var err error
	app.Env = env

	app.Logger, err = logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Starting application", zap.String("environment", env))

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	return nil
}
