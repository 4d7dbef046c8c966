package matcher_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"discsub/internal/catalog"
	"discsub/internal/logging"
	"discsub/internal/matcher"
	"discsub/internal/services"
	"discsub/internal/sitecode"
	"discsub/internal/submission"
)

type fakeClient struct {
	noCredentials bool
	byHash        map[string][]int
	byUniversal   map[string][]int
	pages         map[int]catalog.DiscPage
	hashErr       error
	fetched       []int
	hashQueries   []string
}

func (f *fakeClient) HasCredentials() bool { return !f.noCredentials }

func (f *fakeClient) ListByHash(_ context.Context, sha1 string) ([]int, error) {
	f.hashQueries = append(f.hashQueries, sha1)
	if f.hashErr != nil {
		return nil, f.hashErr
	}
	return f.byHash[sha1], nil
}

func (f *fakeClient) ListByUniversalHash(_ context.Context, hash string) ([]int, error) {
	return f.byUniversal[hash], nil
}

func (f *fakeClient) FetchDisc(_ context.Context, id int) (catalog.DiscPage, error) {
	f.fetched = append(f.fetched, id)
	page, ok := f.pages[id]
	if !ok {
		return catalog.DiscPage{}, errors.New("no such disc")
	}
	return page, nil
}

func romLine(name, sha1 string) string {
	return `<rom name="` + name + `" size="1" crc="00000000" md5="00000000000000000000000000000000" sha1="` + sha1 + `" />`
}

func newMatcher(client catalog.Client) *matcher.Matcher {
	return matcher.New(client, logging.NewNop())
}

func TestResolveSingleTrackScenario(t *testing.T) {
	client := &fakeClient{
		byHash: map[string][]int{"deadbeef": {42, 10}},
		pages: map[int]catalog.DiscPage{
			10: {ID: 10, Title: "Game (Disc 1)", Region: "U", Category: "Games", Added: "2020-01-01", LastModified: "2024-05-06"},
			42: {ID: 42, Title: "Other"},
		},
	}
	rec := submission.New(submission.SonyPlayStation, submission.MediaCDROM)

	var progress []string
	res, err := newMatcher(client).Resolve(context.Background(), romLine("Game.bin", "deadbeef"), rec, matcher.Options{
		Observer: func(msg string) { progress = append(progress, msg) },
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Resolved() || *res.FullyMatchedID != 10 {
		t.Fatalf("expected full match 10, got %+v", res)
	}
	if rec.FullyMatchedID == nil || *rec.FullyMatchedID != 10 {
		t.Fatalf("record not updated: %+v", rec.FullyMatchedID)
	}
	if diff := cmp.Diff([]int{42}, rec.PartiallyMatchedIDs); diff != "" {
		t.Fatalf("partial ids mismatch (-want +got):\n%s", diff)
	}
	if rec.CommonDiscInfo.Title != "Game" || rec.CommonDiscInfo.DiscNumberLetter != "1" {
		t.Fatalf("unexpected title fields: %q %q", rec.CommonDiscInfo.Title, rec.CommonDiscInfo.DiscNumberLetter)
	}
	if rec.CommonDiscInfo.Region != submission.RegionUSA || rec.LastModified != "2024-05-06" {
		t.Fatalf("enrichment missing: %+v", rec.CommonDiscInfo)
	}
	if !slices.Equal(client.fetched, []int{10}) {
		t.Fatalf("expected only candidate 10 to be fetched, got %v", client.fetched)
	}
	if len(progress) == 0 {
		t.Fatal("expected progress messages")
	}
}

func TestResolveIntersectionLaw(t *testing.T) {
	dat := strings.Join([]string{
		romLine("Game (Track 1).bin", "aa"),
		romLine("Game (Track 2).bin", "bb"),
		romLine("Game (Track 3).bin", "cc"),
	}, "\n")

	tests := []struct {
		name        string
		byHash      map[string][]int
		wantFull    []int
		wantPartial []int
	}{
		{
			name:        "common subset",
			byHash:      map[string][]int{"aa": {1, 2, 3}, "bb": {2, 3}, "cc": {3, 4}},
			wantFull:    []int{3},
			wantPartial: []int{1, 2, 4},
		},
		{
			name:        "empty set empties candidates",
			byHash:      map[string][]int{"aa": {1, 2}, "bb": nil, "cc": {1, 2}},
			wantFull:    nil,
			wantPartial: []int{1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := map[int]catalog.DiscPage{}
			for _, id := range []int{1, 2, 3, 4} {
				pages[id] = catalog.DiscPage{ID: id, TrackCount: 3}
			}
			client := &fakeClient{byHash: tt.byHash, pages: pages}
			rec := submission.New(submission.SegaSaturn, submission.MediaCDROM)

			res, err := newMatcher(client).Resolve(context.Background(), dat, rec, matcher.Options{})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if diff := cmp.Diff(tt.wantFull, res.Candidates); diff != "" {
				t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantPartial, rec.PartiallyMatchedIDs); diff != "" {
				t.Fatalf("partial mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveSkipsTrackCountMismatch(t *testing.T) {
	client := &fakeClient{
		byHash: map[string][]int{"aa": {5, 6}},
		pages: map[int]catalog.DiscPage{
			5: {ID: 5, TrackCount: 2},
			6: {ID: 6},
		},
	}
	rec := submission.New(submission.SegaSaturn, submission.MediaCDROM)
	res, err := newMatcher(client).Resolve(context.Background(), romLine("x.bin", "aa"), rec, matcher.Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Resolved() || *res.FullyMatchedID != 6 {
		t.Fatalf("expected 6 to win, got %+v", res)
	}
	if diff := cmp.Diff([]int{5}, rec.PartiallyMatchedIDs); diff != "" {
		t.Fatalf("partial mismatch:\n%s", diff)
	}
}

func TestResolveUniversalHashFallback(t *testing.T) {
	dat := strings.Join([]string{
		romLine("Album (Track 1).bin", "aa"),
		romLine("Album (Track 2).bin", "bb"),
		romLine("Album (Track 3).bin", "cc"),
	}, "\n")
	tests := []struct {
		name     string
		declared int
		resolved bool
	}{
		{"track count agrees", 3, true},
		{"track count differs", 12, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{
				byUniversal: map[string][]int{"abc/def==": {77}},
				pages:       map[int]catalog.DiscPage{77: {ID: 77, Title: "Album", TrackCount: tt.declared}},
			}
			rec := submission.New(submission.AudioCD, submission.MediaCDROM)
			rec.CommonDiscInfo.CommentsSpecialFields[sitecode.UniversalHash] = "abc/def=="

			res, err := newMatcher(client).Resolve(context.Background(), dat, rec, matcher.Options{})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !res.UsedUniversalHash || res.TrackCount != 3 {
				t.Fatalf("expected universal hash lookup over 3 tracks, got %+v", res)
			}
			if res.Resolved() != tt.resolved {
				t.Fatalf("resolved = %v, want %v (%+v)", res.Resolved(), tt.resolved, res)
			}
			if tt.resolved {
				if *res.FullyMatchedID != 77 || len(rec.PartiallyMatchedIDs) != 0 {
					t.Fatalf("full match must not stay partial: %+v %v", res, rec.PartiallyMatchedIDs)
				}
				return
			}
			if rec.CommonDiscInfo.Title == "Album" || !slices.Equal(rec.PartiallyMatchedIDs, []int{77}) {
				t.Fatalf("mismatched entry accepted: title=%q partial=%v", rec.CommonDiscInfo.Title, rec.PartiallyMatchedIDs)
			}
		})
	}
}

func TestResolveWithoutCredentialsIsNoop(t *testing.T) {
	client := &fakeClient{noCredentials: true}
	rec := submission.New(submission.SonyPlayStation, submission.MediaCDROM)
	res, err := newMatcher(client).Resolve(context.Background(), romLine("x.bin", "aa"), rec, matcher.Options{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !res.Skipped || res.Resolved() {
		t.Fatalf("expected skipped result, got %+v", res)
	}
	if len(client.hashQueries) != 0 {
		t.Fatalf("expected no lookups, got %v", client.hashQueries)
	}

	res, err = newMatcher(nil).Resolve(context.Background(), "", rec, matcher.Options{})
	if err != nil || !res.Skipped {
		t.Fatalf("nil client should skip: %+v %v", res, err)
	}
}

func TestResolveUnreachableLeavesRecordUnchanged(t *testing.T) {
	client := &fakeClient{hashErr: errors.New("connection refused")}
	rec := submission.New(submission.SonyPlayStation, submission.MediaCDROM)
	rec.CommonDiscInfo.Title = "Local"
	rec.SetPartiallyMatched([]int{9})
	before := rec.Clone()

	_, err := newMatcher(client).Resolve(context.Background(), romLine("x.bin", "aa"), rec, matcher.Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if diff := cmp.Diff(before, rec); diff != "" {
		t.Fatalf("record changed on failure:\n%s", diff)
	}
}

func TestResolvePullAllInformation(t *testing.T) {
	client := &fakeClient{
		byHash: map[string][]int{"aa": {3}},
		pages: map[int]catalog.DiscPage{3: {
			ID:       3,
			Title:    "Game",
			Serial:   "SLUS-00001",
			Comments: "<b>Internal Serial</b>: SLUS_000.01\nPrinted on the back",
			Contents: "<b>Games</b>: Game A\nGame B",
		}},
	}
	rec := submission.New(submission.SonyPlayStation, submission.MediaCDROM)
	rec.CommonDiscInfo.Serial = "SLUS-99999"

	_, err := newMatcher(client).Resolve(context.Background(), romLine("x.bin", "aa"), rec, matcher.Options{PullAllInformation: true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	info := rec.CommonDiscInfo
	if info.Serial != "SLUS-99999" {
		t.Fatalf("local serial must win, got %q", info.Serial)
	}
	if info.CommentsSpecialFields[sitecode.InternalSerialName] != "SLUS_000.01" {
		t.Fatalf("expected re-tagged serial, got %v", info.CommentsSpecialFields)
	}
	if info.Comments != "Printed on the back" {
		t.Fatalf("unexpected comments %q", info.Comments)
	}
	if info.ContentsSpecialFields[sitecode.Games] != "Game A\nGame B" {
		t.Fatalf("unexpected contents tags %v", info.ContentsSpecialFields)
	}
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		in   string
		want matcher.TitleParts
	}{
		{"Plain", matcher.TitleParts{Title: "Plain"}},
		{"Game (Disc 2)", matcher.TitleParts{Title: "Game", DiscNumberLetter: "2"}},
		{"Magazine (12) (Disc A) (Bonus)", matcher.TitleParts{Title: "Magazine (12)", DiscNumberLetter: "A", DiscTitle: "Bonus"}},
		{"Game (Install Disc)", matcher.TitleParts{Title: "Game", DiscTitle: "Install Disc"}},
	}
	for _, tt := range tests {
		if got := matcher.SplitTitle(tt.in); got != tt.want {
			t.Errorf("SplitTitle(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestTrackCountMatches(t *testing.T) {
	if !matcher.TrackCountMatches(0, 1) || matcher.TrackCountMatches(0, 2) {
		t.Fatal("undeclared count only fits single track dumps")
	}
	if !matcher.TrackCountMatches(3, 3) || matcher.TrackCountMatches(3, 2) {
		t.Fatal("declared counts must match exactly")
	}
}
