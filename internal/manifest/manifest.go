// Package manifest parses DAT-style per-track hash manifests.
package manifest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var romPattern = regexp.MustCompile(`<rom name="(.*?)" size="(.*?)" crc="(.*?)" md5="(.*?)" sha1="(.*?)"`)

// knownExtraTracks are filename suffixes of tracks that dumping tools emit
// beside the catalogued tracks (lead-in, pregap, and negative-LBA copies).
var knownExtraTracks = []string{
	"(Track 0).bin",
	"(Track 00).bin",
	"(Track A).bin",
	"(Track AA).bin",
	"(Track 1)(-LBA).bin",
	"(Track 01)(-LBA).bin",
}

// Track is one parsed manifest line.
type Track struct {
	Name  string
	Size  int64
	CRC32 string
	MD5   string
	SHA1  string
}

// LineError describes a manifest line that could not be parsed.
type LineError struct {
	Line   int
	Text   string
	Reason string
}

func (e LineError) Error() string {
	return fmt.Sprintf("manifest line %d: %s", e.Line, e.Reason)
}

// Manifest is the result of parsing a DAT blob.
type Manifest struct {
	// Tracks are the lines that participate in matching.
	Tracks []Track
	// Skipped counts lines naming known extra tracks.
	Skipped int
	// Invalid lists non-blank lines that did not match the rom pattern.
	Invalid []LineError
}

// ExpectedTrackCount is the number of tracks the catalog entry must declare.
func (m Manifest) ExpectedTrackCount() int {
	return len(m.Tracks)
}

// Parse reads every line of dat. Blank lines are ignored; unparseable lines
// and known extra tracks are excluded from Tracks.
func Parse(dat string) Manifest {
	var m Manifest
	dat = strings.ReplaceAll(dat, "\r\n", "\n")
	for i, raw := range strings.Split(dat, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		track, err := ParseLine(line)
		if err != nil {
			m.Invalid = append(m.Invalid, LineError{Line: i + 1, Text: line, Reason: err.Error()})
			continue
		}
		if IsKnownExtraTrack(track.Name) {
			m.Skipped++
			continue
		}
		m.Tracks = append(m.Tracks, track)
	}
	return m
}

// ParseLine extracts the rom fields from a single manifest line.
func ParseLine(line string) (Track, error) {
	match := romPattern.FindStringSubmatch(line)
	if match == nil {
		return Track{}, fmt.Errorf("line does not match rom pattern")
	}
	track := Track{
		Name:  htmlUnescape(match[1]),
		CRC32: strings.ToLower(match[3]),
		MD5:   strings.ToLower(match[4]),
		SHA1:  strings.ToLower(match[5]),
	}
	if match[2] != "" {
		size, err := strconv.ParseInt(match[2], 10, 64)
		if err != nil {
			return Track{}, fmt.Errorf("invalid size %q", match[2])
		}
		track.Size = size
	}
	if track.SHA1 == "" {
		return Track{}, fmt.Errorf("missing sha1")
	}
	return track, nil
}

// IsKnownExtraTrack reports whether name ends with a known extra track suffix.
func IsKnownExtraTrack(name string) bool {
	for _, suffix := range knownExtraTracks {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

var datEscapes = strings.NewReplacer("&amp;", "&", "&apos;", "'", "&quot;", `"`, "&lt;", "<", "&gt;", ">")

func htmlUnescape(s string) string {
	return datEscapes.Replace(s)
}

// Format renders tracks back into DAT lines.
func Format(tracks []Track) string {
	var b strings.Builder
	for i, t := range tracks {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, `<rom name="%s" size="%d" crc="%s" md5="%s" sha1="%s" />`, t.Name, t.Size, t.CRC32, t.MD5, t.SHA1)
	}
	return b.String()
}
