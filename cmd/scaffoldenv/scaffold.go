package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/websauna/scaffoldenv"
)

type scaffoldFlags struct {
	keep         bool
	python       string
	template     string
	frameworkDir string
	extras       string
	tempDir      string
}

func (f scaffoldFlags) options() []scaffoldenv.ScaffoldOption {
	var opts []scaffoldenv.ScaffoldOption
	if f.keep {
		opts = append(opts, scaffoldenv.WithKeepFolder())
	}
	if f.python != "" {
		opts = append(opts, scaffoldenv.WithPython(f.python))
	}
	if f.template != "" {
		opts = append(opts, scaffoldenv.WithTemplate(f.template))
	}
	if f.frameworkDir != "" {
		opts = append(opts, scaffoldenv.WithFrameworkDir(f.frameworkDir))
	}
	if f.extras != "" {
		opts = append(opts, scaffoldenv.WithFrameworkExtras(f.extras))
	}
	if f.tempDir != "" {
		opts = append(opts, scaffoldenv.WithTempDir(f.tempDir))
	}
	return opts
}

func newScaffoldCmd() *cobra.Command {
	var flags scaffoldFlags
	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Build a scaffold folder with a generated websauna app",
		Long: `Build a scaffold folder the way the test session does: a virtualenv with
the framework installed from source and an app generated by cookiecutter.

Without --keep the folder is torn down on Ctrl-C. With --keep the command
exits as soon as the folder is ready and leaves it on disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := scaffoldenv.NewScaffold(flags.options()...)
			if err := s.Initialize(cmd.Context()); err != nil {
				return fmt.Errorf("build scaffold: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, color.GreenString("Scaffold ready"))
			fmt.Fprintf(out, "  folder:  %s\n", color.CyanString(s.Folder()))
			fmt.Fprintf(out, "  project: %s\n", color.CyanString(s.ProjectDir()))

			if !flags.keep {
				fmt.Fprintln(out, "Press Ctrl-C to tear it down.")
				<-cmd.Context().Done()
			}
			return s.Shutdown()
		},
	}
	cmd.Flags().BoolVar(&flags.keep, "keep", false, "Leave the folder on disk and exit")
	cmd.Flags().StringVar(&flags.python, "python", "", "Interpreter creating the virtualenv")
	cmd.Flags().StringVar(&flags.template, "template", "", "Cookiecutter template")
	cmd.Flags().StringVar(&flags.frameworkDir, "framework-dir", "", "Framework checkout (default: working directory)")
	cmd.Flags().StringVar(&flags.extras, "extras", "", "Framework extras to install")
	cmd.Flags().StringVar(&flags.tempDir, "temp-dir", "", "Parent directory of the scaffold folder")
	return cmd
}
