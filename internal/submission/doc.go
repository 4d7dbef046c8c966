// Package submission defines the submission record produced for each dump,
// the static enumeration tables it refers to (systems, media types, regions,
// languages, categories), placeholder tokens, the shared media-subtype
// function, and the stable JSON serialization used for round-tripping.
package submission
