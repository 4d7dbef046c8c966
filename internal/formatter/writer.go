package formatter

import (
	"regexp"
	"strings"
)

var (
	tabTokenPattern  = regexp.MustCompile(`<tab>| {3}`)
	tabSpacesPattern = regexp.MustCompile(`[ \t]*\t[ \t]*`)
)

// lineWriter accumulates report lines.
type lineWriter struct {
	lines []string
}

func (w *lineWriter) line(s string) {
	w.lines = append(w.lines, s)
}

func (w *lineWriter) blank() {
	w.lines = append(w.lines, "")
}

func (w *lineWriter) header(title string) {
	w.line(title + ":")
}

// field emits key: value at indent. Empty values are skipped. raw values
// keep their internal whitespace. Values flagged multiLine, or containing a
// newline, are written as a block below the key.
func (w *lineWriter) field(indent int, key, value string, multiLine, raw bool) {
	if strings.TrimSpace(value) == "" {
		return
	}
	if !raw {
		value = NormalizeTabs(value)
	}
	value = strings.ReplaceAll(value, "\r\n", "\n")
	prefix := strings.Repeat("\t", indent)

	if !multiLine && !strings.Contains(strings.TrimRight(value, "\n"), "\n") {
		w.line(prefix + key + ": " + strings.TrimSpace(value))
		return
	}
	w.line(prefix + key + ":")
	w.blank()
	for _, l := range strings.Split(strings.TrimRight(value, "\n"), "\n") {
		w.line(l)
	}
	w.blank()
}

// NormalizeTabs turns literal "<tab>" and three-space runs into tab
// characters and collapses whitespace around each tab into that tab.
func NormalizeTabs(value string) string {
	value = tabTokenPattern.ReplaceAllString(value, "\t")
	return tabSpacesPattern.ReplaceAllString(value, "\t")
}

// CollapseBlankLines reduces every run of blank lines to a single blank
// line. Lines containing only whitespace count as blank.
func CollapseBlankLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	previousBlank := false
	for _, l := range lines {
		isBlank := strings.TrimSpace(l) == ""
		if isBlank && previousBlank {
			continue
		}
		if isBlank {
			l = ""
		}
		out = append(out, l)
		previousBlank = isBlank
	}
	return out
}
