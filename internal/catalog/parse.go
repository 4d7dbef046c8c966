package catalog

import (
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DiscPage is the data extracted from one catalog detail page. String
// fields are HTML-decoded and NFC-normalized; empty means absent.
type DiscPage struct {
	ID           int
	System       string
	Title        string
	ForeignTitle string
	Category     string
	Region       string
	Languages    []string
	Serial       string
	Version      string
	Edition      string
	Barcode      string
	Dumpers      []string
	// TrackCount is the declared number of tracks, 0 when undeclared.
	TrackCount   int
	Comments     string
	Contents     string
	Added        string
	LastModified string
}

var (
	csrfPattern       = regexp.MustCompile(`<input[^>]*name="csrf_token"[^>]*value="(.*?)"`)
	loginFormPattern  = regexp.MustCompile(`<input[^>]*name="password"`)
	discPathPattern   = regexp.MustCompile(`^/disc/(\d+)/?$`)
	searchIDPattern   = regexp.MustCompile(`<a href="/disc/(\d+)/">`)
	titlePattern      = regexp.MustCompile(`(?s)<h1>(.*?)</h1>`)
	foreignPattern    = regexp.MustCompile(`(?s)<h2>(.*?)</h2>`)
	systemPattern     = regexp.MustCompile(`<a href="/discs/system/(.*?)/">`)
	regionPattern     = regexp.MustCompile(`<a href="/discs/region/(.*?)/">`)
	languagePattern   = regexp.MustCompile(`<img src="/images/languages/(.*?)\.png"`)
	dumperPattern     = regexp.MustCompile(`<a href="/discs/dumper/(.*?)/">`)
	commentsPattern   = regexp.MustCompile(`(?s)<tr><th>Comments</th></tr><tr><td>(.*?)</td></tr>`)
	contentsPattern   = regexp.MustCompile(`(?s)<tr><th>Contents</th></tr><tr><td>(.*?)</td></tr>`)
	lineBreakPattern  = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	rowPatternByLabel = map[string]*regexp.Regexp{}
)

func init() {
	for _, label := range []string{"Category", "Serial", "Version", "Edition", "Barcode", "Number of tracks", "Added", "Last modified"} {
		rowPatternByLabel[label] = regexp.MustCompile(`(?s)<tr><th>` + regexp.QuoteMeta(label) + `</th><td>(.*?)</td></tr>`)
	}
}

// ParseSearchResults returns the disc IDs linked from a search result page
// in page order, without duplicates.
func ParseSearchResults(body string) []int {
	var ids []int
	seen := map[int]struct{}{}
	for _, match := range searchIDPattern.FindAllStringSubmatch(body, -1) {
		id, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// ParseDiscPage extracts fields from a disc detail page.
func ParseDiscPage(body string) DiscPage {
	page := DiscPage{
		System:       firstMatch(systemPattern, body),
		Title:        cleanText(firstMatch(titlePattern, body)),
		ForeignTitle: cleanText(firstMatch(foreignPattern, body)),
		Category:     rowValue("Category", body),
		Region:       firstMatch(regionPattern, body),
		Serial:       rowValue("Serial", body),
		Version:      rowValue("Version", body),
		Edition:      rowValue("Edition", body),
		Barcode:      rowValue("Barcode", body),
		Comments:     cleanBlock(firstMatch(commentsPattern, body)),
		Contents:     cleanBlock(firstMatch(contentsPattern, body)),
		Added:        rowValue("Added", body),
		LastModified: rowValue("Last modified", body),
	}
	if n, err := strconv.Atoi(rowValue("Number of tracks", body)); err == nil {
		page.TrackCount = n
	}
	for _, match := range languagePattern.FindAllStringSubmatch(body, -1) {
		page.Languages = appendUnique(page.Languages, match[1])
	}
	for _, match := range dumperPattern.FindAllStringSubmatch(body, -1) {
		name, err := url.PathUnescape(match[1])
		if err != nil {
			name = match[1]
		}
		page.Dumpers = appendUnique(page.Dumpers, cleanText(name))
	}
	return page
}

func extractCSRFToken(body string) string {
	return html.UnescapeString(firstMatch(csrfPattern, body))
}

func containsLoginForm(body string) bool {
	return loginFormPattern.MatchString(body)
}

func discIDFromPath(u *url.URL) (int, bool) {
	if u == nil {
		return 0, false
	}
	match := discPathPattern.FindStringSubmatch(u.Path)
	if match == nil {
		return 0, false
	}
	id, err := strconv.Atoi(match[1])
	return id, err == nil
}

func firstMatch(re *regexp.Regexp, body string) string {
	match := re.FindStringSubmatch(body)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

func rowValue(label, body string) string {
	return cleanText(firstMatch(rowPatternByLabel[label], body))
}

// cleanText strips markup from a single-line value.
func cleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return norm.NFC.String(strings.TrimSpace(strings.Join(strings.Fields(s), " ")))
}

// cleanBlock converts a multi-line HTML block to text. Bold markup is kept
// so long tag labels survive for later substitution.
func cleanBlock(s string) string {
	if s == "" {
		return ""
	}
	s = lineBreakPattern.ReplaceAllString(s, "\n")
	s = tagPattern.ReplaceAllStringFunc(s, func(tag string) string {
		switch strings.ToLower(tag) {
		case "<b>", "</b>":
			return tag
		}
		return ""
	})
	s = html.UnescapeString(s)
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return norm.NFC.String(strings.TrimSpace(strings.Join(lines, "\n")))
}

func appendUnique(list []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return list
	}
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
