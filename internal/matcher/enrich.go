package matcher

import (
	"regexp"
	"strings"

	"discsub/internal/catalog"
	"discsub/internal/sitecode"
	"discsub/internal/submission"
)

var (
	titleSuffixPattern = regexp.MustCompile(`\((.*?)\)`)
	discNumberPattern  = regexp.MustCompile(`^Disc (.+)$`)
	issueNumberPattern = regexp.MustCompile(`^\d+$`)
)

// TitleParts is a catalog title split into its components.
type TitleParts struct {
	Title            string
	DiscNumberLetter string
	DiscTitle        string
}

// SplitTitle splits a catalog title such as "Game (12) (Disc 2) (Bonus)" into
// the base title with any issue number kept, the disc number, and the disc
// title.
func SplitTitle(full string) TitleParts {
	full = strings.TrimSpace(full)
	idx := strings.Index(full, " (")
	if idx < 0 {
		return TitleParts{Title: full}
	}
	parts := TitleParts{Title: strings.TrimSpace(full[:idx])}
	var extras []string
	for _, match := range titleSuffixPattern.FindAllStringSubmatch(full[idx:], -1) {
		value := strings.TrimSpace(match[1])
		switch {
		case value == "":
		case discNumberPattern.MatchString(value) && parts.DiscNumberLetter == "":
			parts.DiscNumberLetter = discNumberPattern.FindStringSubmatch(value)[1]
		case issueNumberPattern.MatchString(value):
			parts.Title += " (" + value + ")"
		default:
			extras = append(extras, value)
		}
	}
	parts.DiscTitle = strings.Join(extras, " ")
	return parts
}

// Enrich copies the data of a verified catalog entry into rec. Identity
// fields and timestamps overwrite local values; region, serial, version,
// edition and barcode are only filled when unset locally. With pullAll the
// entry's comments and contents are re-tagged and merged as well.
func Enrich(rec *submission.Record, page catalog.DiscPage, pullAll bool) {
	info := &rec.CommonDiscInfo

	if page.Title != "" {
		parts := SplitTitle(page.Title)
		info.Title = parts.Title
		info.DiscNumberLetter = parts.DiscNumberLetter
		info.DiscTitle = parts.DiscTitle
	}
	overwrite(&info.ForeignTitleNonLatin, page.ForeignTitle)
	if category, ok := submission.ParseCategory(page.Category); ok {
		info.Category = category
	}
	if langs := parseLanguages(page.Languages); len(langs) > 0 {
		info.Languages = langs
	}
	if len(page.Dumpers) > 0 {
		rec.DumpersAndStatus.Dumpers = append([]string(nil), page.Dumpers...)
	}
	overwrite(&rec.Added, page.Added)
	overwrite(&rec.LastModified, page.LastModified)

	if info.Region == submission.RegionUnknown {
		if region, ok := submission.ParseRegion(page.Region); ok {
			info.Region = region
		}
	}
	soft(&info.Serial, page.Serial)
	soft(&info.Barcode, page.Barcode)
	soft(&rec.VersionAndEditions.Version, page.Version)
	soft(&rec.VersionAndEditions.Edition, page.Edition)

	if !pullAll {
		return
	}
	rec.EnsureTagMaps()
	info.Comments = mergeText(info.CommentsSpecialFields, info.Comments, page.Comments)
	info.Contents = mergeText(info.ContentsSpecialFields, info.Contents, page.Contents)
}

// mergeText extracts the tags of fetched into tags without replacing local
// values and returns local extended by the untagged remainder.
func mergeText(tags map[sitecode.Code]string, local, fetched string) string {
	if strings.TrimSpace(fetched) == "" {
		return local
	}
	extracted, remainder := sitecode.Extract(fetched)
	for code, value := range extracted {
		if submission.IsUnset(tags[code]) {
			tags[code] = value
		}
	}
	switch {
	case remainder == "":
		return local
	case submission.IsUnset(local):
		return remainder
	case strings.Contains(local, remainder):
		return local
	}
	return strings.TrimRight(local, "\n") + "\n" + remainder
}

func parseLanguages(codes []string) []submission.Language {
	var out []submission.Language
	for _, code := range codes {
		if lang, ok := submission.ParseLanguage(code); ok {
			out = append(out, lang)
		}
	}
	return out
}

func overwrite(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

func soft(dst *string, value string) {
	if submission.IsUnset(*dst) {
		overwrite(dst, value)
	}
}
