package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/websauna/scaffoldenv"
)

func newKillPortCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "killport",
		Short: "Kill every process holding the development server port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port <= 0 || port > 65535 {
				return fmt.Errorf("invalid port %d", port)
			}
			pids, err := scaffoldenv.KillPortHolders(cmd.Context(), port)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(pids) == 0 {
				fmt.Fprintf(out, "Port %d is free\n", port)
				return nil
			}
			fmt.Fprintf(out, "%s %v, port %d is free\n", color.YellowString("Killed"), pids, port)
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", scaffoldenv.DefaultServerPort, "Port to free")
	return cmd
}
