package submission

import (
	"slices"

	"discsub/internal/sitecode"
)

// SchemaVersion is bumped whenever the serialized field layout changes.
const SchemaVersion = 1

// Record is the submission record assembled for one dump. A Record is owned
// by exactly one pipeline invocation and is not safe for concurrent mutation.
type Record struct {
	SchemaVersion int `json:"schema_version"`

	FullyMatchedID      *int   `json:"fully_matched_id,omitempty"`
	PartiallyMatchedIDs []int  `json:"partially_matched_ids,omitempty"`
	Added               string `json:"added,omitempty"`
	LastModified        string `json:"last_modified,omitempty"`

	CommonDiscInfo        CommonDiscInfo        `json:"common_disc_info"`
	VersionAndEditions    VersionAndEditions    `json:"versions_and_editions"`
	EDC                   EDC                   `json:"edc"`
	Extras                Extras                `json:"extras"`
	CopyProtection        CopyProtection        `json:"copy_protection"`
	DumpersAndStatus      DumpersAndStatus      `json:"dumpers_and_status"`
	TracksAndWriteOffsets TracksAndWriteOffsets `json:"tracks_and_write_offsets"`
	SizeAndChecksums      SizeAndChecksums      `json:"size_and_checksums"`
	DumpingInfo           DumpingInfo           `json:"dumping_info"`
}

// CommonDiscInfo holds identity, mastering, and free-text fields.
type CommonDiscInfo struct {
	System       System    `json:"system"`
	Media        MediaType `json:"media"`
	MediaSubtype string    `json:"media_subtype,omitempty"`

	Title                string     `json:"title,omitempty"`
	ForeignTitleNonLatin string     `json:"foreign_title_non_latin,omitempty"`
	DiscNumberLetter     string     `json:"disc_number_letter,omitempty"`
	DiscTitle            string     `json:"disc_title,omitempty"`
	Category             Category   `json:"category,omitempty"`
	Region               Region     `json:"region,omitempty"`
	Languages            []Language `json:"languages,omitempty"`
	LanguageSelection    []string   `json:"language_selection,omitempty"`
	Serial               string     `json:"serial,omitempty"`
	Barcode              string     `json:"barcode,omitempty"`

	// Layers holds one mastering group per physical layer, inner first.
	Layers []LayerMastering `json:"layers,omitempty"`

	RingWriteOffset  string `json:"ring_write_offset,omitempty"`
	EXEDateBuildDate string `json:"exe_date_build_date,omitempty"`
	ErrorsCount      string `json:"errors_count,omitempty"`

	Comments              string                   `json:"comments,omitempty"`
	CommentsSpecialFields map[sitecode.Code]string `json:"comments_special_fields,omitempty"`
	Contents              string                   `json:"contents,omitempty"`
	ContentsSpecialFields map[sitecode.Code]string `json:"contents_special_fields,omitempty"`
}

// LayerMastering is the ring/SID/toolstamp/mould group for one layer.
type LayerMastering struct {
	MasteringRing          string `json:"mastering_ring,omitempty"`
	MasteringSID           string `json:"mastering_sid,omitempty"`
	ToolstampMasteringCode string `json:"toolstamp_mastering_code,omitempty"`
	MouldSID               string `json:"mould_sid,omitempty"`
	AdditionalMould        string `json:"additional_mould,omitempty"`
}

// IsZero reports whether no field of the group is set.
func (l LayerMastering) IsZero() bool {
	return l == LayerMastering{}
}

type VersionAndEditions struct {
	Version        string `json:"version,omitempty"`
	VersionDatfile string `json:"version_datfile,omitempty"`
	Edition        string `json:"edition,omitempty"`
	OtherEditions  string `json:"other_editions,omitempty"`
}

// EDC records whether mode 2 form 2 sectors carry EDC (PlayStation only).
type EDC struct {
	EDC YesNo `json:"edc,omitempty"`
}

type Extras struct {
	PVD                  string `json:"pvd,omitempty"`
	DiscKey              string `json:"disc_key,omitempty"`
	DiscID               string `json:"disc_id,omitempty"`
	PIC                  string `json:"pic,omitempty"`
	Header               string `json:"header,omitempty"`
	BCA                  string `json:"bca,omitempty"`
	SecuritySectorRanges string `json:"security_sector_ranges,omitempty"`
}

type CopyProtection struct {
	AntiModchip     YesNo             `json:"anti_modchip,omitempty"`
	LibCrypt        YesNo             `json:"libcrypt,omitempty"`
	LibCryptData    string            `json:"libcrypt_data,omitempty"`
	Protection      string            `json:"protection,omitempty"`
	FullProtections map[string]string `json:"full_protections,omitempty"`
	SecuROMData     string            `json:"securom_data,omitempty"`
}

type DumpersAndStatus struct {
	Status       string   `json:"status,omitempty"`
	Dumpers      []string `json:"dumpers,omitempty"`
	OtherDumpers string   `json:"other_dumpers,omitempty"`
}

type TracksAndWriteOffsets struct {
	ClrMameProData     string `json:"clrmamepro_data,omitempty"`
	Cuesheet           string `json:"cuesheet,omitempty"`
	CommonWriteOffsets string `json:"common_write_offsets,omitempty"`
	OtherWriteOffsets  string `json:"other_write_offsets,omitempty"`
}

// SizeAndChecksums describes whole-image size and hashes. Layerbreak fields
// are sector offsets; zero means unset.
type SizeAndChecksums struct {
	Size          int64  `json:"size,omitempty"`
	CRC32         string `json:"crc32,omitempty"`
	MD5           string `json:"md5,omitempty"`
	SHA1          string `json:"sha1,omitempty"`
	Layerbreak    int64  `json:"layerbreak,omitempty"`
	Layerbreak2   int64  `json:"layerbreak2,omitempty"`
	Layerbreak3   int64  `json:"layerbreak3,omitempty"`
	PICIdentifier string `json:"pic_identifier,omitempty"`
}

// LayerbreakCount returns how many layerbreak offsets are set.
func (s SizeAndChecksums) LayerbreakCount() int {
	switch {
	case s.Layerbreak3 != 0:
		return 3
	case s.Layerbreak2 != 0:
		return 2
	case s.Layerbreak != 0:
		return 1
	}
	return 0
}

type DumpingInfo struct {
	FrontendVersion   string `json:"frontend_version,omitempty"`
	DumpingProgram    string `json:"dumping_program,omitempty"`
	DumpingDate       string `json:"dumping_date,omitempty"`
	DumpingParameters string `json:"dumping_parameters,omitempty"`
	Manufacturer      string `json:"manufacturer,omitempty"`
	Model             string `json:"model,omitempty"`
	Firmware          string `json:"firmware,omitempty"`
	ReportedDiscType  string `json:"reported_disc_type,omitempty"`
	C2ErrorsCount     string `json:"c2_errors_count,omitempty"`
}

// New returns an empty record for the given system and media.
func New(system System, media MediaType) *Record {
	return &Record{
		SchemaVersion: SchemaVersion,
		CommonDiscInfo: CommonDiscInfo{
			System:                system,
			Media:                 media,
			CommentsSpecialFields: map[sitecode.Code]string{},
			ContentsSpecialFields: map[sitecode.Code]string{},
		},
	}
}

// EnsureTagMaps allocates nil tag maps so callers can assign into them.
func (r *Record) EnsureTagMaps() {
	if r.CommonDiscInfo.CommentsSpecialFields == nil {
		r.CommonDiscInfo.CommentsSpecialFields = map[sitecode.Code]string{}
	}
	if r.CommonDiscInfo.ContentsSpecialFields == nil {
		r.CommonDiscInfo.ContentsSpecialFields = map[sitecode.Code]string{}
	}
}

// SetFullyMatched records id as the full match and removes it from the
// partial match set.
func (r *Record) SetFullyMatched(id int) {
	r.FullyMatchedID = &id
	r.PartiallyMatchedIDs = slices.DeleteFunc(r.PartiallyMatchedIDs, func(v int) bool { return v == id })
}

// SetPartiallyMatched replaces the partial match set with ids, sorted and
// deduplicated, excluding any full match.
func (r *Record) SetPartiallyMatched(ids []int) {
	out := slices.Clone(ids)
	slices.Sort(out)
	out = slices.Compact(out)
	if r.FullyMatchedID != nil {
		full := *r.FullyMatchedID
		out = slices.DeleteFunc(out, func(v int) bool { return v == full })
	}
	if len(out) == 0 {
		out = nil
	}
	r.PartiallyMatchedIDs = out
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.FullyMatchedID != nil {
		id := *r.FullyMatchedID
		out.FullyMatchedID = &id
	}
	out.PartiallyMatchedIDs = slices.Clone(r.PartiallyMatchedIDs)
	out.CommonDiscInfo.Languages = slices.Clone(r.CommonDiscInfo.Languages)
	out.CommonDiscInfo.LanguageSelection = slices.Clone(r.CommonDiscInfo.LanguageSelection)
	out.CommonDiscInfo.Layers = slices.Clone(r.CommonDiscInfo.Layers)
	out.CommonDiscInfo.CommentsSpecialFields = cloneMap(r.CommonDiscInfo.CommentsSpecialFields)
	out.CommonDiscInfo.ContentsSpecialFields = cloneMap(r.CommonDiscInfo.ContentsSpecialFields)
	out.CopyProtection.FullProtections = cloneMap(r.CopyProtection.FullProtections)
	out.DumpersAndStatus.Dumpers = slices.Clone(r.DumpersAndStatus.Dumpers)
	return &out
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	if in == nil {
		return nil
	}
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
