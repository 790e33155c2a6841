// Package core provides the internal implementation of scaffoldenv.
//
// It contains the Session (a state machine that builds a scaffold folder
// once per process and tears it down on Shutdown), the Server launcher
// (port clearing, cross-process port lock and a crash-on-startup check),
// and thin adapters over the command, database and file-edit packages so
// the public API imports only from core.
package core
