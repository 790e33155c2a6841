// Package netutil finds and evicts processes holding a TCP port and
// serializes use of a fixed port across test binaries.
//
// The development server of a scaffolded app always binds the same port, so
// a server left over from an aborted run (or started by a parallel test
// package) must be killed first. PortLock keeps two test binaries from doing
// that to each other.
package netutil
