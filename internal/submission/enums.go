package submission

import (
	"fmt"
	"sort"
	"strings"
)

// MediaType is the physical medium family of a dump.
type MediaType string

const (
	MediaUnknown                  MediaType = ""
	MediaCDROM                    MediaType = "CD"
	MediaDVD                      MediaType = "DVD"
	MediaBluRay                   MediaType = "BD"
	MediaHDDVD                    MediaType = "HDDVD"
	MediaGDROM                    MediaType = "GD"
	MediaNintendoGameCubeGameDisc MediaType = "NGCD"
	MediaNintendoWiiOpticalDisc   MediaType = "WIIOD"
	MediaNintendoWiiUOpticalDisc  MediaType = "WIIUOD"
	MediaUMD                      MediaType = "UMD"
	MediaFloppyDisk               MediaType = "FLOPPY"
)

var mediaNames = map[MediaType]string{
	MediaCDROM:                    "CD-ROM",
	MediaDVD:                      "DVD-ROM",
	MediaBluRay:                   "BD-ROM",
	MediaHDDVD:                    "HD-DVD-ROM",
	MediaGDROM:                    "GD-ROM",
	MediaNintendoGameCubeGameDisc: "Nintendo GameCube Game Disc",
	MediaNintendoWiiOpticalDisc:   "Nintendo Wii Optical Disc",
	MediaNintendoWiiUOpticalDisc:  "Nintendo Wii U Optical Disc",
	MediaUMD:                      "UMD",
	MediaFloppyDisk:               "Floppy Disk",
}

// MediaTypes lists every known media type.
func MediaTypes() []MediaType {
	out := make([]MediaType, 0, len(mediaNames))
	for m := range mediaNames {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseMediaType accepts a media code or display name, case-insensitively.
func ParseMediaType(value string) (MediaType, bool) {
	value = strings.TrimSpace(value)
	for m, name := range mediaNames {
		if strings.EqualFold(string(m), value) || strings.EqualFold(name, value) {
			return m, true
		}
	}
	return MediaUnknown, false
}

// Name returns the display name for m.
func (m MediaType) Name() string {
	if name, ok := mediaNames[m]; ok {
		return name
	}
	return string(m)
}

// IsCDFamily reports whether m is a single-layer pressed CD-style medium.
func (m MediaType) IsCDFamily() bool {
	return m == MediaCDROM || m == MediaGDROM
}

// IsLayered reports whether m can carry more than one data layer.
func (m MediaType) IsLayered() bool {
	switch m {
	case MediaDVD, MediaBluRay, MediaHDDVD, MediaNintendoGameCubeGameDisc,
		MediaNintendoWiiOpticalDisc, MediaNintendoWiiUOpticalDisc, MediaUMD:
		return true
	}
	return false
}

// Region is a catalog region code such as "U" or "Uk".
type Region string

const RegionUnknown Region = ""

var regionNames = map[Region]string{
	"Ar": "Argentina",
	"A":  "Asia",
	"Au": "Australia",
	"At": "Austria",
	"Be": "Belgium",
	"B":  "Brazil",
	"Ca": "Canada",
	"C":  "China",
	"Hr": "Croatia",
	"Cz": "Czechia",
	"Dk": "Denmark",
	"E":  "Europe",
	"Fi": "Finland",
	"F":  "France",
	"G":  "Germany",
	"Gr": "Greece",
	"Hk": "Hong Kong",
	"In": "India",
	"I":  "Italy",
	"J":  "Japan",
	"K":  "Korea",
	"Nl": "Netherlands",
	"No": "Norway",
	"Pl": "Poland",
	"Pt": "Portugal",
	"R":  "Russia",
	"S":  "Spain",
	"Sw": "Sweden",
	"Ch": "Switzerland",
	"Tw": "Taiwan",
	"Uk": "UK",
	"U":  "USA",
	"W":  "World",
}

// Well-known regions used by derivation defaults.
const (
	RegionJapan  Region = "J"
	RegionUSA    Region = "U"
	RegionEurope Region = "E"
	RegionWorld  Region = "W"
)

// ParseRegion accepts a region code or display name.
func ParseRegion(value string) (Region, bool) {
	value = strings.TrimSpace(value)
	for r, name := range regionNames {
		if string(r) == value || strings.EqualFold(name, value) {
			return r, true
		}
	}
	for r := range regionNames {
		if strings.EqualFold(string(r), value) {
			return r, true
		}
	}
	return RegionUnknown, false
}

// Name returns the display name for r.
func (r Region) Name() string {
	if name, ok := regionNames[r]; ok {
		return name
	}
	return string(r)
}

// Language is a two-letter language code as used by catalog flag images.
type Language string

var languageNames = map[Language]string{
	"ar": "Arabic",
	"ca": "Catalan",
	"zh": "Chinese",
	"cs": "Czech",
	"da": "Danish",
	"nl": "Dutch",
	"en": "English",
	"fi": "Finnish",
	"fr": "French",
	"de": "German",
	"el": "Greek",
	"he": "Hebrew",
	"hi": "Hindi",
	"hu": "Hungarian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"no": "Norwegian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ru": "Russian",
	"es": "Spanish",
	"sv": "Swedish",
	"th": "Thai",
	"tr": "Turkish",
	"uk": "Ukrainian",
}

// ParseLanguage accepts a language code or display name.
func ParseLanguage(value string) (Language, bool) {
	value = strings.TrimSpace(value)
	for l, name := range languageNames {
		if strings.EqualFold(string(l), value) || strings.EqualFold(name, value) {
			return l, true
		}
	}
	return "", false
}

// Name returns the display name for l.
func (l Language) Name() string {
	if name, ok := languageNames[l]; ok {
		return name
	}
	return string(l)
}

// LanguageNames renders a language list as comma-separated display names.
func LanguageNames(langs []Language) string {
	names := make([]string, 0, len(langs))
	for _, l := range langs {
		names = append(names, l.Name())
	}
	return strings.Join(names, ", ")
}

// Category is the catalog content category.
type Category string

const (
	CategoryUnknown       Category = ""
	CategoryGames         Category = "Games"
	CategoryDemos         Category = "Demos"
	CategoryVideo         Category = "Video"
	CategoryAudio         Category = "Audio"
	CategoryMultimedia    Category = "Multimedia"
	CategoryApplications  Category = "Applications"
	CategoryCoverdiscs    Category = "Coverdiscs"
	CategoryEducational   Category = "Educational"
	CategoryBonusDiscs    Category = "Bonus Discs"
	CategoryPreproduction Category = "Preproduction"
	CategoryAddOns        Category = "Add-Ons"
)

var categories = []Category{
	CategoryGames, CategoryDemos, CategoryVideo, CategoryAudio, CategoryMultimedia,
	CategoryApplications, CategoryCoverdiscs, CategoryEducational, CategoryBonusDiscs,
	CategoryPreproduction, CategoryAddOns,
}

// ParseCategory matches a category display name case-insensitively.
func ParseCategory(value string) (Category, bool) {
	value = strings.TrimSpace(value)
	for _, c := range categories {
		if strings.EqualFold(string(c), value) {
			return c, true
		}
	}
	return CategoryUnknown, false
}

// YesNo is a tri-state flag: unset, yes, or no.
type YesNo string

const (
	YesNoUnset YesNo = ""
	Yes        YesNo = "Yes"
	No         YesNo = "No"
)

// ParseYesNo interprets common truthy and falsy spellings.
func ParseYesNo(value string) (YesNo, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return YesNoUnset, nil
	case "yes", "true", "1", "y":
		return Yes, nil
	case "no", "false", "0", "n":
		return No, nil
	}
	return YesNoUnset, fmt.Errorf("invalid yes/no value %q", value)
}
