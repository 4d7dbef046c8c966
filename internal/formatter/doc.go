// Package formatter renders a resolved submission record into the text
// report.
//
// Sections appear in a fixed order and every populated field becomes one
// "key: value" line, indented with tabs. Multi-line values are written as a
// block below their key. Tab tokens inside values are normalized, except in
// the PVD, the header dump and the cue sheet, which are reproduced verbatim.
// Runs of blank lines are collapsed before the lines are returned.
package formatter
