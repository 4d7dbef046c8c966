package sitecode

import (
	"sort"
	"strings"
)

// commentOrder is the canonical order of tags rendered into the comments
// block: identifying info, disc and medium IDs, hashes and versions, then
// publisher and company IDs.
var commentOrder = []Code{
	// Identifying info
	AlternativeTitle,
	AlternativeForeignTitle,
	DiscTitleNonLatin,
	EditionNonLatin,
	InternalName,
	Series,
	Genre,
	TitleID,
	UniversalHash,
	XMID,
	XeMID,
	Filename,
	HighSierraVolumeDescriptor,

	// Disc and medium IDs
	BBFCRegistrationNumber,
	DiscHologramID,
	DNASDiscID,
	ISBN,
	ISSN,
	PPN,
	VFCCode,
	CompatibleOS,
	RingNonZeroDataStart,
	RingPerfectAudioOffset,

	// Hashes, versions, and flags
	Protection,
	PostgapType,
	VCD,
	LogsLink,

	// Publisher and company IDs
	AcclaimID,
	ActivisionID,
	BandaiID,
	BethesdaID,
	CDProjektID,
	EidosID,
	ElectronicArtsID,
	FoxInteractiveID,
	GTInteractiveID,
	HasbroID,
	InterplayID,
	JASRACID,
	KingRecordsID,
	KoeiID,
	KonamiID,
	LucasArtsID,
	MicrosoftID,
	NaganoID,
	NamcoID,
	NipponIchiSoftwareID,
	OriginID,
	PonyCanyonID,
	SegaID,
	SelenID,
	SierraID,
	TaitoID,
	UbisoftID,
	ValveID,
}

// contentOrder is the canonical order of the contents block: games, demos,
// video, then everything else.
var contentOrder = []Code{
	Games,
	NetYarozeGames,
	PlayableDemos,
	RollingDemos,
	TechDemos,
	GameFootage,
	Videos,
	Patches,
	Savegames,
	Extras,
	Applications,
}

// excluded tags are never rendered into comments. Their values already live
// in structured fields of the record.
var excluded = map[Code]struct{}{
	InternalSerialName: {},
	Multisession:       {},
	VolumeLabel:        {},
	DMIHash:            {},
	PFIHash:            {},
	SSHash:             {},
	SSVersion:          {},
}

var (
	commentRank = rankOf(commentOrder)
	contentRank = rankOf(contentOrder)
)

func rankOf(order []Code) map[Code]int {
	rank := make(map[Code]int, len(order))
	for i, code := range order {
		rank[code] = i
	}
	return rank
}

// CommentOrder returns a copy of the canonical comment tag order.
func CommentOrder() []Code { return append([]Code(nil), commentOrder...) }

// ContentOrder returns a copy of the canonical content tag order.
func ContentOrder() []Code { return append([]Code(nil), contentOrder...) }

// IsExcluded reports whether c is withheld from rendered comments.
func IsExcluded(c Code) bool {
	_, ok := excluded[c]
	return ok
}

// IsContentTag reports whether c belongs to the contents block.
func IsContentTag(c Code) bool {
	_, ok := contentRank[c]
	return ok
}

// SortComments returns the renderable comment codes from codes in canonical
// order. Excluded codes and codes without a comment position are dropped.
func SortComments(codes []Code) []Code {
	return sortByRank(codes, commentRank)
}

// SortContents returns the content codes from codes in canonical order.
func SortContents(codes []Code) []Code {
	return sortByRank(codes, contentRank)
}

func sortByRank(codes []Code, rank map[Code]int) []Code {
	out := make([]Code, 0, len(codes))
	seen := make(map[Code]struct{}, len(codes))
	for _, code := range codes {
		if IsExcluded(code) {
			continue
		}
		if _, ok := rank[code]; !ok {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool { return rank[out[i]] < rank[out[j]] })
	return out
}

// longNameReplacer rewrites long labels to short tags. Longer labels are
// registered first so that a label which prefixes another never wins.
var longNameReplacer = func() *strings.Replacer {
	codes := All()
	sort.SliceStable(codes, func(i, j int) bool {
		return len(table[codes[i]].Long) > len(table[codes[j]].Long)
	})
	pairs := make([]string, 0, len(codes)*2)
	for _, code := range codes {
		pairs = append(pairs, table[code].Long, table[code].Short)
	}
	return strings.NewReplacer(pairs...)
}()

// ReplaceLongNames substitutes every long display label in text with its
// short render tag.
func ReplaceLongNames(text string) string {
	if text == "" {
		return text
	}
	return longNameReplacer.Replace(text)
}
