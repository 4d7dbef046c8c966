// Package textutil provides the filename helpers used when naming report
// artifacts: sanitizing user-supplied base names and deriving a base name
// from a dump or seed file path.
package textutil
