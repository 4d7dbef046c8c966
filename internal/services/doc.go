// Package services holds the cross-cutting error markers and context helpers
// shared by every pipeline stage.
//
// Stages wrap failures with one of the exported sentinel errors so the
// pipeline driver can decide whether a failure is a malformed input, an
// unavailable collaborator, or a configuration problem without parsing
// message text. Context helpers carry the run identifier and current stage
// name so log lines can be correlated across a single submission run.
package services
