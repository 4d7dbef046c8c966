// Package sitecode is the static catalog of structured annotation tags that
// appear inside submission comment and content blocks.
//
// Every Code carries a short render tag (as written into generated reports), a
// long display label (as it appears in catalog-sourced free text), and flags
// for multi-line and boolean rendering. The package also fixes the canonical
// order in which consolidated tags are written and the set of tags that are
// never rendered into comments. The tables are read-only and safe to share
// between goroutines.
package sitecode
