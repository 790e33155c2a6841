package cookiecutter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/websauna/scaffoldenv/internal/execrun"
)

// DefaultTemplate is the websauna application template.
const DefaultTemplate = "https://github.com/websauna/cookiecutter-websauna-app/archive/master.zip"

// DefaultBinary is the cookiecutter executable looked up in PATH.
const DefaultBinary = "cookiecutter"

// DefaultTimeout bounds a template render, download included.
const DefaultTimeout = 3 * time.Minute

// DefaultExtraContext answers the websauna app template's prompts.
func DefaultExtraContext() map[string]string {
	return map[string]string{
		"full_name":                 "Websauna Team",
		"email":                     "developers@websauna.org",
		"company":                   "Websauna",
		"github_username":           "websauna",
		"project_name":              "Websauna: News portal",
		"project_short_description": "Websauna news portal application.",
		"tags":                      "python package websauna pyramid",
		"repo_name":                 "my.app",
		"namespace":                 "my",
		"package_name":              "app",
		"release_date":              "today",
		"year":                      "2017",
		"version":                   "1.0.0a1",
		"create_virtualenv":         "No",
	}
}

// Options configures Generate.
type Options struct {
	Binary       string // defaults to DefaultBinary
	Template     string // defaults to DefaultTemplate
	ExtraContext map[string]string
	OutputDir    string
	ConfigFile   string
	Timeout      time.Duration // defaults to DefaultTimeout
}

func (o Options) withDefaults() Options {
	if o.Binary == "" {
		o.Binary = DefaultBinary
	}
	if o.Template == "" {
		o.Template = DefaultTemplate
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Args returns the cookiecutter argv. Extra context entries are passed as
// key=value in key order so the command line is reproducible.
func (o Options) Args() []string {
	o = o.withDefaults()
	args := []string{o.Binary, "--no-input", "--output-dir", o.OutputDir}
	if o.ConfigFile != "" {
		args = append(args, "--config-file", o.ConfigFile)
	}
	args = append(args, o.Template)

	keys := make([]string, 0, len(o.ExtraContext))
	for k := range o.ExtraContext {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		args = append(args, k+"="+o.ExtraContext[k])
	}
	return args
}

// ProjectDir is where the template renders, <OutputDir>/<repo_name>.
func (o Options) ProjectDir() string {
	return filepath.Join(o.OutputDir, o.ExtraContext["repo_name"])
}

// Generate renders the template into o.OutputDir and returns the project
// directory.
func Generate(ctx context.Context, o Options, logger *slog.Logger) (string, error) {
	if o.OutputDir == "" {
		return "", fmt.Errorf("cookiecutter: output dir must not be empty")
	}
	if o.ExtraContext["repo_name"] == "" {
		return "", fmt.Errorf("cookiecutter: extra context must name repo_name")
	}
	o = o.withDefaults()

	c := execrun.Command{Args: o.Args(), Dir: o.OutputDir, Timeout: o.Timeout}
	res, err := execrun.Run(ctx, c, logger)
	if err != nil {
		return "", err
	}
	if err := execrun.Expect(res, 0, "scaffold command did not properly exit: "+c.Cmdline(), c.Cmdline(), o.OutputDir); err != nil {
		return "", err
	}
	return o.ProjectDir(), nil
}
