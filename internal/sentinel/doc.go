// Package sentinel defines Error, a string-backed error type that can be
// declared as a const. Failure kinds shared across scaffoldenv (command
// timeout, unexpected exit, early server exit) are declared with it so they
// cannot be reassigned and still match through errors.Is.
package sentinel
