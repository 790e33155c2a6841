package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/websauna/scaffoldenv"
)

type databaseFlags struct {
	dsn     string
	dialect string
}

func (f *databaseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dsn, "dsn", "", "Control connection string, or the database directory for sqlite")
	cmd.Flags().StringVar(&f.dialect, "dialect", "postgres", "Database engine: postgres or sqlite")
}

func (f databaseFlags) options() ([]scaffoldenv.DatabaseOption, error) {
	dialect, err := scaffoldenv.ParseDialect(f.dialect)
	if err != nil {
		return nil, err
	}
	opts := []scaffoldenv.DatabaseOption{scaffoldenv.WithDialect(dialect)}
	if f.dsn != "" {
		opts = append(opts, scaffoldenv.WithDSN(f.dsn))
	}
	return opts, nil
}

func newCreateDBCmd() *cobra.Command {
	var flags databaseFlags
	cmd := &cobra.Command{
		Use:   "createdb NAME",
		Short: "Create a test database, dropping a stale one first",
		Long: `Create a test database, dropping a stale one first, and print its
connection URL. The database stays until dropdb.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			db, err := scaffoldenv.CreateDatabaseContext(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("Created"), db.URL)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDropDBCmd() *cobra.Command {
	var flags databaseFlags
	cmd := &cobra.Command{
		Use:   "dropdb NAME",
		Short: "Disconnect every client of a test database and drop it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			if err := scaffoldenv.DropDatabaseContext(cmd.Context(), args[0], opts...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("Dropped"), args[0])
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
