// Package preflight provides readiness checks for the directories, catalog
// endpoint, lookup cache and external tools discsub depends on.
//
// The "discsub preflight" command prints every result; "discsub watch" runs
// the same checks and refuses to start when a required one fails. Checks for
// disabled features report as passed with a note.
package preflight
