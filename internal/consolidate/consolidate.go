// Package consolidate flattens the structured tag maps of a submission record
// into its free-text comments and contents.
package consolidate

import (
	"strings"

	"discsub/internal/sitecode"
	"discsub/internal/submission"
)

// Record renders both tag maps of rec into its comments and contents and
// clears the maps. Running it again is a no-op.
func Record(rec *submission.Record) {
	if rec == nil {
		return
	}
	info := &rec.CommonDiscInfo
	info.Comments = Merge(info.Comments, info.CommentsSpecialFields, sitecode.SortComments)
	info.CommentsSpecialFields = nil
	info.Contents = Merge(info.Contents, info.ContentsSpecialFields, sitecode.SortContents)
	info.ContentsSpecialFields = nil
}

// Merge prepends the rendered tags to text. order sorts the tag codes into
// their canonical sequence and drops excluded ones. An empty tag map leaves
// text untouched; otherwise the result has LF line endings and is trimmed,
// even when every tag was blank or excluded.
func Merge(text string, tags map[sitecode.Code]string, order func([]sitecode.Code) []sitecode.Code) string {
	if len(tags) == 0 {
		return text
	}
	merged := Render(tags, order)
	switch {
	case merged == "":
		merged = text
	case !submission.IsPlaceholder(text) && strings.TrimSpace(text) != "":
		merged += "\n" + text
	}
	return strings.TrimSpace(strings.ReplaceAll(merged, "\r\n", "\n"))
}

// Render formats tags in canonical order, one entry per line. Boolean tags
// render their short name only when set to "true"; multi-line tags are
// followed by a blank line.
func Render(tags map[sitecode.Code]string, order func([]sitecode.Code) []sitecode.Code) string {
	if len(tags) == 0 {
		return ""
	}
	codes := make([]sitecode.Code, 0, len(tags))
	for code, value := range tags {
		if strings.TrimSpace(value) != "" {
			codes = append(codes, code)
		}
	}

	var lines []string
	for _, code := range order(codes) {
		value := strings.TrimSpace(tags[code])
		switch {
		case code.IsBoolean():
			if value == "true" {
				lines = append(lines, code.ShortName())
			}
		case code.IsMultiLine():
			lines = append(lines, code.ShortName()+" "+value+"\n")
		default:
			lines = append(lines, code.ShortName()+" "+value)
		}
	}
	return strings.Join(lines, "\n")
}
