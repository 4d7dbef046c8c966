package consolidate_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"discsub/internal/consolidate"
	"discsub/internal/sitecode"
	"discsub/internal/submission"
)

func newRecord() *submission.Record {
	rec := submission.New(submission.SonyPlayStation2, submission.MediaDVD)
	rec.CommonDiscInfo.Comments = "Scanned from a retail copy.\r\nSecond line."
	rec.CommonDiscInfo.CommentsSpecialFields = map[sitecode.Code]string{
		sitecode.PPN:                "  ",
		sitecode.VCD:                "true",
		sitecode.PostgapType:        "false",
		sitecode.ISBN:               "978-0-00-000000-0",
		sitecode.InternalSerialName: "SLUS-12345",
		sitecode.Filename:           "GAME.ISO",
	}
	rec.CommonDiscInfo.Contents = submission.OptionalValue
	rec.CommonDiscInfo.ContentsSpecialFields = map[sitecode.Code]string{
		sitecode.PlayableDemos: "Demo A",
		sitecode.Games:         "Game A\nGame B",
	}
	return rec
}

func TestRecordRendersCanonicalOrder(t *testing.T) {
	rec := newRecord()
	consolidate.Record(rec)

	info := rec.CommonDiscInfo
	want := "[T:FN] GAME.ISO\n\n[T:VCD]\n[T:ISBN] 978-0-00-000000-0\nScanned from a retail copy.\nSecond line."
	if info.Comments != want {
		t.Fatalf("unexpected comments:\n%q\nwant:\n%q", info.Comments, want)
	}
	if info.Contents != "[T:G] Game A\nGame B\n\n[T:PD] Demo A" {
		t.Fatalf("unexpected contents %q", info.Contents)
	}
	if info.CommentsSpecialFields != nil || info.ContentsSpecialFields != nil {
		t.Fatal("tag maps must be cleared")
	}
}

func TestInternalSerialNameIsExcluded(t *testing.T) {
	rec := submission.New(submission.SonyPlayStation, submission.MediaCDROM)
	rec.CommonDiscInfo.CommentsSpecialFields = map[sitecode.Code]string{
		sitecode.InternalSerialName: "SLUS-12345",
	}
	consolidate.Record(rec)
	if strings.Contains(rec.CommonDiscInfo.Comments, "SLUS-12345") || strings.Contains(rec.CommonDiscInfo.Comments, "[T:ISN]") {
		t.Fatalf("excluded tag rendered: %q", rec.CommonDiscInfo.Comments)
	}
}

func TestRecordIsIdempotent(t *testing.T) {
	once := newRecord()
	consolidate.Record(once)
	twice := once.Clone()
	consolidate.Record(twice)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("second run changed the record (-once +twice):\n%s", diff)
	}
}

func TestEmptyMapsLeaveTextUntouched(t *testing.T) {
	rec := submission.New(submission.SegaSaturn, submission.MediaCDROM)
	rec.CommonDiscInfo.Comments = "  keep me  "
	consolidate.Record(rec)
	if rec.CommonDiscInfo.Comments != "  keep me  " {
		t.Fatalf("text changed: %q", rec.CommonDiscInfo.Comments)
	}
}

func TestExcludedOnlyTagsStillNormalizeText(t *testing.T) {
	rec := submission.New(submission.SonyPlayStation, submission.MediaCDROM)
	rec.EnsureTagMaps()
	rec.CommonDiscInfo.CommentsSpecialFields[sitecode.InternalSerialName] = "SLUS-12345"
	rec.CommonDiscInfo.CommentsSpecialFields[sitecode.VCD] = "   "
	rec.CommonDiscInfo.Comments = "  line one\r\nline two\r\n"

	consolidate.Record(rec)

	if got := rec.CommonDiscInfo.Comments; got != "line one\nline two" {
		t.Fatalf("comments = %q", got)
	}
	if rec.CommonDiscInfo.CommentsSpecialFields != nil {
		t.Fatal("tag map not cleared")
	}
}
