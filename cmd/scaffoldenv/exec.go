package main

import (
	"errors"
	"fmt"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/websauna/scaffoldenv"
)

func newExecCmd() *cobra.Command {
	var (
		dir     string
		timeout = scaffoldenv.DefaultCommandTimeout
	)
	cmd := &cobra.Command{
		Use:   `exec [--dir DIR] -- "COMMAND"`,
		Short: "Run a command without a shell, failing on timeout or non-zero exit",
		Long: `Run a command the way the tests do: no shell, bounded by --timeout, and
failing with the captured output on a non-zero exit.

A single argument is split into words with shell quoting rules; several
arguments are used as they are.

Examples:
  scaffoldenv exec --dir /tmp -- "ws-create-user 'my.app/development.ini' admin@example.com"
  scaffoldenv exec -- python3 -c 'print(1)'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			argv := args
			if len(args) == 1 {
				words, err := shellwords.Parse(args[0])
				if err != nil {
					return fmt.Errorf("parse command: %w", err)
				}
				argv = words
			}
			if len(argv) == 0 {
				return errors.New("empty command")
			}
			if timeout <= 0 {
				return fmt.Errorf("invalid timeout %s", timeout)
			}
			_, err := scaffoldenv.ExecuteCommand(cmd.Context(), dir, timeout, argv...)
			return err
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "C", ".", "Working directory")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", timeout, "Time limit")
	return cmd
}
