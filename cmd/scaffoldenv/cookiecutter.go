package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/websauna/scaffoldenv"
)

func newCookiecutterConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cookiecutter-config DIR",
		Short: "Write a cookiecutter user config isolated under DIR",
		Long: `Write DIR/user_dir/config pointing cookiecutter at empty template and
replay directories under DIR, and print its path. Pass it to cookiecutter
with --config-file to keep runs away from ~/.cookiecutters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scaffoldenv.WriteCookiecutterConfig(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
