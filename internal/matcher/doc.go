// Package matcher identifies a dump against the remote catalog.
//
// Every track SHA-1 from the hash manifest is looked up in turn. The union of
// the returned IDs becomes the partial match set and their intersection the
// candidate set. Candidates are verified in ascending ID order by comparing
// the catalog's declared track count with the local one, and the first
// verified entry enriches the record and becomes the full match. Media
// without per-track hashes fall back to the universal hash tag.
package matcher
