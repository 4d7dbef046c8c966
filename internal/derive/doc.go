// Package derive fills default and placeholder values into a submission
// record.
//
// Behaviour is a rule table rather than a switch cascade: each media type
// and each system maps to an ordered list of named Rules, followed by a fixed
// set of finalization rules. Rules only touch fields that are still unset.
// Checks that need an external collaborator (anti-modchip, LibCrypt, and the
// copy-protection scanner) are injected as interfaces; a failing collaborator
// is recorded in the Report and leaves its field alone.
package derive
