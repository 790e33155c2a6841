// Package fileutil provides small file helpers over an afero.Fs.
//
// EnsureDir creates directories recursively, and WriteFile replaces a file's
// content via temp-file-then-rename so a reader never observes a partially
// written file. Scoped file edits use WriteFile both to apply and to restore
// content, and the cookiecutter config writer uses it for its YAML file.
package fileutil
