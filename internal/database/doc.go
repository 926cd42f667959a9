// Package database provides the TimescaleDB connection pool used to keep a
// history of health samples. The pool is optional: without a configured
// host the service runs with in-memory health state only.
package database
