package textutil

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// recordSuffixes are stripped by BaseName, longest first.
var recordSuffixes = []string{
	".dump.json.gz",
	".seed.json",
	".dump.json",
	".json.gz",
	".json",
	".dat",
	".cue",
}

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is NFC-normalized and trimmed.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(norm.NFC.String(name)))
}

// TrimRecordSuffix returns the final path element of path without its
// record suffix. Names made only of a suffix are returned unchanged.
func TrimRecordSuffix(path string) string {
	name := filepath.Base(strings.TrimSpace(path))
	lower := strings.ToLower(name)
	for _, suffix := range recordSuffixes {
		if strings.HasSuffix(lower, suffix) && len(name) > len(suffix) {
			return name[:len(name)-len(suffix)]
		}
	}
	return name
}

// BaseName derives the artifact base name from a dump, seed or manifest path:
// the final path element without its record suffix, sanitized. Returns
// "submission" when nothing usable remains.
func BaseName(path string) string {
	name := TrimRecordSuffix(path)
	if name == "." || name == string(filepath.Separator) {
		return "submission"
	}
	name = SanitizeFileName(name)
	if name == "" {
		return "submission"
	}
	return name
}
