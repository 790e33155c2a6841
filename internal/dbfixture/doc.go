// Package dbfixture creates and drops throwaway databases for a single test.
//
// Postgres is the primary dialect: a control connection (by default
// "dbname=postgres") drops a stale database of the same name, creates a
// fresh one, and on teardown terminates every backend connected to it
// before dropping it. The SQLite dialect mirrors that lifecycle with a file
// per database inside a directory.
package dbfixture
