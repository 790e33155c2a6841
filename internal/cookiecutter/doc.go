// Package cookiecutter drives the cookiecutter project templating tool.
//
// WriteConfig prepares an isolated cookiecutter user config so template
// downloads and replay files never touch the invoking user's home, and
// Generate renders a template non-interactively with a fixed extra context.
package cookiecutter
