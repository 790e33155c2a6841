// Package execrun runs a command to completion with a timeout and captures
// its output. Failures are reported as *CommandError values that carry the
// command line and everything the process wrote, so a failing test shows
// why the step broke without a second run.
package execrun
