// Package store keeps a SQLite history of processed submissions.
//
// Every pipeline run records one row keyed by its run ID: the disc's
// identity, the catalog match outcome, the final status and the paths of the
// files written. The history is an audit trail for the CLI; nothing in the
// pipeline reads it back. The schema version lives in SQLite's user_version
// field; a database at another version is refused rather than migrated.
package store
