package main

import (
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/websauna/scaffoldenv"
)

var flagVerbose bool

// newRootCommand returns the root command with all subcommands attached.
func newRootCommand() *cobra.Command {
	cobra.EnableCommandSorting = false
	rootCmd := &cobra.Command{
		Use:   "scaffoldenv",
		Short: "Websauna end-to-end test fixtures from the command line",
		Long: `scaffoldenv runs the fixtures of the websauna end-to-end tests by hand.

Settings come from flags, then SCAFFOLDENV_* environment variables, then a
.env file in the working directory:
  SCAFFOLDENV_POSTGRES_DSN   control database for createdb and dropdb
  SCAFFOLDENV_PYTHON         interpreter creating the scaffold virtualenv
  SCAFFOLDENV_TEMPLATE       cookiecutter template
  SCAFFOLDENV_FRAMEWORK_DIR  framework checkout installed into the virtualenv
  SCAFFOLDENV_SERVER_PORT    development server port
  SCAFFOLDENV_KEEP_FOLDER    keep the scaffold folder after teardown`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := log.InfoLevel
			if flagVerbose {
				level = log.DebugLevel
			}
			handler := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
				Level:           level,
				Prefix:          "scaffoldenv",
				ReportTimestamp: true,
			})
			scaffoldenv.SetLogger(slog.New(handler))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug messages")

	rootCmd.AddCommand(newScaffoldCmd())
	rootCmd.AddCommand(newCreateDBCmd())
	rootCmd.AddCommand(newDropDBCmd())
	rootCmd.AddCommand(newKillPortCmd())
	rootCmd.AddCommand(newExecCmd())
	rootCmd.AddCommand(newCookiecutterConfigCmd())
	return rootCmd
}
