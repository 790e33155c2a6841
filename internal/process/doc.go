// Package process manages shell commands that may outlive a single call:
// venv commands, wait-and-see probes and development servers.
//
// Every command runs through /bin/sh in its own process group so that
// signals reach the shell and whatever it spawned. BaseProcess owns one
// such command; Capture decides where its output goes (memory or log
// files). KillMatching and KillPIDs reap stray processes by command line or
// PID. The package is POSIX only.
package process
