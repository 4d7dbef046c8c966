// Package pipeline drives a submission record through derivation, catalog
// matching, seed overlay, tag consolidation and report rendering, then writes
// the artifacts and records the run in the history store.
//
// Each stage produces a StageResult that is forwarded to the Observer. A
// failing stage does not stop the run; only a formatter failure suppresses
// the report file.
package pipeline
