package submission_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"discsub/internal/sitecode"
	"discsub/internal/submission"
)

func resolvedRecord() *submission.Record {
	r := submission.New(submission.SonyPlayStation2, submission.MediaDVD)
	r.SetPartiallyMatched([]int{42, 7, 42})
	r.SetFullyMatched(10)
	r.Added = "2020-01-02 03:04"
	r.LastModified = "2023-05-06 07:08"
	r.CommonDiscInfo.Title = "Example Game"
	r.CommonDiscInfo.Category = submission.CategoryGames
	r.CommonDiscInfo.Region = submission.RegionUSA
	r.CommonDiscInfo.Languages = []submission.Language{"en", "fr"}
	r.CommonDiscInfo.Serial = "SLUS-12345"
	r.CommonDiscInfo.Layers = []submission.LayerMastering{
		{MasteringRing: "A1", MasteringSID: "IFPI L123", MouldSID: "IFPI 45"},
		{ToolstampMasteringCode: "B2"},
	}
	r.CommonDiscInfo.CommentsSpecialFields[sitecode.ISBN] = "978-0"
	r.CommonDiscInfo.ContentsSpecialFields[sitecode.Games] = "Game A\nGame B"
	r.CopyProtection.AntiModchip = submission.No
	r.CopyProtection.FullProtections = map[string]string{"SLUS_123.45": "None"}
	r.DumpersAndStatus.Dumpers = []string{"alice"}
	r.SizeAndChecksums = submission.SizeAndChecksums{Size: 4_000_000_000, SHA1: "abc", Layerbreak: 1_000_000}
	r.TracksAndWriteOffsets.ClrMameProData = `<rom name="x.iso" size="1" crc="00000000" md5="d41d8cd98f00b204e9800998ecf8427e" sha1="da39a3ee5e6b4b0d3255bfef95601890afd80709" />`
	return r
}

func TestRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		original := resolvedRecord()
		data, err := submission.Marshal(original, compress)
		if err != nil {
			t.Fatalf("Marshal(compress=%v): %v", compress, err)
		}
		if compress && (data[0] != 0x1f || data[1] != 0x8b) {
			t.Fatal("expected gzip magic")
		}
		decoded, err := submission.Unmarshal(data)
		if err != nil {
			t.Fatalf("Unmarshal(compress=%v): %v", compress, err)
		}
		if diff := cmp.Diff(original, decoded, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("round trip mismatch (compress=%v) (-want +got):\n%s", compress, diff)
		}
	}
}

func TestUnmarshalRejectsNewerSchema(t *testing.T) {
	if _, err := submission.Unmarshal([]byte(`{"schema_version": 99}`)); err == nil {
		t.Fatal("expected error for future schema version")
	}
}

func TestFullMatchNeverPartial(t *testing.T) {
	r := submission.New(submission.SonyPlayStation, submission.MediaCDROM)
	r.SetPartiallyMatched([]int{10, 42})
	r.SetFullyMatched(10)
	if diff := cmp.Diff([]int{42}, r.PartiallyMatchedIDs); diff != "" {
		t.Fatalf("partial ids (-want +got):\n%s", diff)
	}
	r.SetPartiallyMatched([]int{10, 11})
	if diff := cmp.Diff([]int{11}, r.PartiallyMatchedIDs); diff != "" {
		t.Fatalf("partial ids after reset (-want +got):\n%s", diff)
	}
}

func TestMediaSubtype(t *testing.T) {
	cases := []struct {
		name  string
		media submission.MediaType
		sizes submission.SizeAndChecksums
		want  string
	}{
		{"bd25 at threshold", submission.MediaBluRay, submission.SizeAndChecksums{Size: 26_843_531_856}, "BD25"},
		{"bd33 above threshold", submission.MediaBluRay, submission.SizeAndChecksums{Size: 26_843_531_857}, "BD33"},
		{"bd33 rom ultra", submission.MediaBluRay, submission.SizeAndChecksums{Size: 1, PICIdentifier: "ROM Ultra"}, "BD33"},
		{"bd50", submission.MediaBluRay, submission.SizeAndChecksums{Size: 53_687_063_712, Layerbreak: 12_000_000_000}, "BD50"},
		{"bd66 by size", submission.MediaBluRay, submission.SizeAndChecksums{Size: 53_687_063_713, Layerbreak: 1}, "BD66"},
		{"bd66 rom ultra", submission.MediaBluRay, submission.SizeAndChecksums{Size: 1, Layerbreak: 12_000_000_000, PICIdentifier: "ROM Ultra"}, "BD66"},
		{"bd100", submission.MediaBluRay, submission.SizeAndChecksums{Layerbreak: 1, Layerbreak2: 2}, "BD100"},
		{"bd128", submission.MediaBluRay, submission.SizeAndChecksums{Layerbreak: 1, Layerbreak2: 2, Layerbreak3: 3}, "BD128"},
		{"dvd5", submission.MediaDVD, submission.SizeAndChecksums{}, "DVD-5"},
		{"dvd9", submission.MediaDVD, submission.SizeAndChecksums{Layerbreak: 2_000_000}, "DVD-9"},
		{"umd sl", submission.MediaUMD, submission.SizeAndChecksums{}, "UMD-SL"},
		{"umd dl", submission.MediaUMD, submission.SizeAndChecksums{Layerbreak: 1}, "UMD-DL"},
		{"hddvd dl", submission.MediaHDDVD, submission.SizeAndChecksums{Layerbreak: 1}, "HD-DVD-DL"},
		{"cd", submission.MediaCDROM, submission.SizeAndChecksums{}, "CD-ROM"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := submission.MediaSubtype(tc.media, tc.sizes); got != tc.want {
				t.Fatalf("MediaSubtype = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLayerGroupCount(t *testing.T) {
	cases := []struct {
		media submission.MediaType
		sizes submission.SizeAndChecksums
		want  int
	}{
		{submission.MediaCDROM, submission.SizeAndChecksums{}, 1},
		{submission.MediaGDROM, submission.SizeAndChecksums{}, 1},
		{submission.MediaDVD, submission.SizeAndChecksums{}, 2},
		{submission.MediaDVD, submission.SizeAndChecksums{Layerbreak: 1}, 2},
		{submission.MediaBluRay, submission.SizeAndChecksums{Layerbreak: 1, Layerbreak2: 2}, 3},
		{submission.MediaBluRay, submission.SizeAndChecksums{Layerbreak: 1, Layerbreak2: 2, Layerbreak3: 3}, 4},
		{submission.MediaUMD, submission.SizeAndChecksums{}, 2},
		{submission.MediaFloppyDisk, submission.SizeAndChecksums{}, 0},
	}
	for _, tc := range cases {
		if got := submission.LayerGroupCount(tc.media, tc.sizes); got != tc.want {
			t.Fatalf("LayerGroupCount(%s, %+v) = %d, want %d", tc.media, tc.sizes, got, tc.want)
		}
	}
}

func TestApplySeed(t *testing.T) {
	r := resolvedRecord()
	r.CommonDiscInfo.Barcode = submission.RequiredIfExistsValue

	seed := &submission.Record{}
	seed.CommonDiscInfo.System = submission.SegaSaturn
	seed.CommonDiscInfo.Title = "Seeded Title"
	seed.CommonDiscInfo.Serial = submission.RequiredValue
	seed.CommonDiscInfo.Barcode = "0 12345 67890 1"
	seed.CommonDiscInfo.Layers = []submission.LayerMastering{{}, {MouldSID: "IFPI 99"}, {MasteringRing: "C3"}}
	seed.CommonDiscInfo.CommentsSpecialFields = map[sitecode.Code]string{
		sitecode.ISBN:   "978-1",
		sitecode.SegaID: "",
		sitecode.PPN:    submission.OptionalValue,
		sitecode.XMID:   "AB-1234",
	}
	seed.SizeAndChecksums.Layerbreak2 = 5

	submission.ApplySeed(r, seed)

	c := r.CommonDiscInfo
	if c.System != submission.SonyPlayStation2 {
		t.Fatalf("system must not be overlaid, got %s", c.System)
	}
	if c.Title != "Seeded Title" || c.Serial != "SLUS-12345" || c.Barcode != "0 12345 67890 1" {
		t.Fatalf("unexpected overlay result: %+v", c)
	}
	if len(c.Layers) != 3 || c.Layers[0].MasteringRing != "A1" || c.Layers[1].MouldSID != "IFPI 99" || c.Layers[2].MasteringRing != "C3" {
		t.Fatalf("unexpected layers: %+v", c.Layers)
	}
	wantTags := map[sitecode.Code]string{sitecode.ISBN: "978-1", sitecode.XMID: "AB-1234"}
	if diff := cmp.Diff(wantTags, c.CommentsSpecialFields); diff != "" {
		t.Fatalf("tags (-want +got):\n%s", diff)
	}
	if r.SizeAndChecksums.Layerbreak2 != 5 || r.SizeAndChecksums.Layerbreak != 1_000_000 {
		t.Fatalf("unexpected sizes: %+v", r.SizeAndChecksums)
	}
}

func TestParseHelpers(t *testing.T) {
	if s, ok := submission.ParseSystem("Sony PlayStation"); !ok || s != submission.SonyPlayStation {
		t.Fatalf("ParseSystem by name = %q, %v", s, ok)
	}
	if s, ok := submission.ParseSystem("PS2"); !ok || s != submission.SonyPlayStation2 {
		t.Fatalf("ParseSystem by code = %q, %v", s, ok)
	}
	if !submission.SonyPlayStationPortable.HasReversedRingcodes() || submission.SonyPlayStation.HasReversedRingcodes() {
		t.Fatal("unexpected reversed ringcode flags")
	}
	if !submission.MicrosoftXbox360.IsXGD() || submission.MicrosoftXboxOne.IsXGD() {
		t.Fatal("unexpected XGD flags")
	}
	if r, ok := submission.ParseRegion("uk"); !ok || r != "Uk" {
		t.Fatalf("ParseRegion = %q, %v", r, ok)
	}
	if l, ok := submission.ParseLanguage("Japanese"); !ok || l != "ja" {
		t.Fatalf("ParseLanguage = %q, %v", l, ok)
	}
	if _, err := submission.ParseYesNo("maybe"); err == nil {
		t.Fatal("expected ParseYesNo error")
	}
}
