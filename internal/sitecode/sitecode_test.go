package sitecode_test

import (
	"encoding/json"
	"strings"
	"testing"

	"discsub/internal/sitecode"
)

func TestTableIsConsistent(t *testing.T) {
	shorts := map[string]sitecode.Code{}
	longs := map[string]sitecode.Code{}
	for _, code := range sitecode.All() {
		info, ok := code.Lookup()
		if !ok {
			t.Fatalf("code %d missing from table", int(code))
		}
		if info.Code != code {
			t.Fatalf("code %s has mismatched self-reference %d", info.Name, int(info.Code))
		}
		if !strings.HasPrefix(info.Short, "[T:") || !strings.HasSuffix(info.Short, "]") {
			t.Fatalf("code %s has malformed short tag %q", info.Name, info.Short)
		}
		if prev, dup := shorts[info.Short]; dup {
			t.Fatalf("short tag %q shared by %s and %s", info.Short, prev, code)
		}
		shorts[info.Short] = code
		if prev, dup := longs[info.Long]; dup {
			t.Fatalf("long name %q shared by %s and %s", info.Long, prev, code)
		}
		longs[info.Long] = code
		if info.MultiLine && info.Boolean {
			t.Fatalf("code %s cannot be both multi-line and boolean", code)
		}
	}
	if len(sitecode.All()) < 70 {
		t.Fatalf("expected a full tag catalog, got %d entries", len(sitecode.All()))
	}
}

func TestEveryCodeHasExactlyOnePlacement(t *testing.T) {
	placed := map[sitecode.Code]int{}
	for _, code := range sitecode.CommentOrder() {
		placed[code]++
	}
	for _, code := range sitecode.ContentOrder() {
		placed[code]++
	}
	for _, code := range sitecode.All() {
		n := placed[code]
		switch {
		case sitecode.IsExcluded(code) && n != 0:
			t.Fatalf("excluded code %s has an order position", code)
		case !sitecode.IsExcluded(code) && n != 1:
			t.Fatalf("code %s placed %d times", code, n)
		}
	}
}

func TestSortCommentsDropsExcludedAndOrders(t *testing.T) {
	got := sitecode.SortComments([]sitecode.Code{
		sitecode.SegaID,
		sitecode.InternalSerialName,
		sitecode.ISBN,
		sitecode.AlternativeTitle,
		sitecode.Games,
		sitecode.ISBN,
	})
	want := []sitecode.Code{sitecode.AlternativeTitle, sitecode.ISBN, sitecode.SegaID}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestReplaceLongNames(t *testing.T) {
	in := "<b>Alternative Foreign Title</b>: Foo\n<b>Alternative Title</b>: Bar\n<b>VCD</b>"
	want := "[T:ALTF] Foo\n[T:ALT] Bar\n[T:VCD]"
	if got := sitecode.ReplaceLongNames(in); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExtract(t *testing.T) {
	text := strings.Join([]string{
		"<b>Internal Serial</b>: SLUS-12345",
		"[T:ISBN] 978-0",
		"[T:ISBN] 978-1",
		"Some free text",
		"[T:G]",
		"Game A",
		"Game B",
		"",
		"[T:PT2]",
		"Trailing note",
	}, "\n")

	tags, rest := sitecode.Extract(text)
	if tags[sitecode.InternalSerialName] != "SLUS-12345" {
		t.Fatalf("unexpected serial %q", tags[sitecode.InternalSerialName])
	}
	if tags[sitecode.ISBN] != "978-0, 978-1" {
		t.Fatalf("unexpected ISBN %q", tags[sitecode.ISBN])
	}
	if tags[sitecode.Games] != "Game A\nGame B" {
		t.Fatalf("unexpected games %q", tags[sitecode.Games])
	}
	if tags[sitecode.PostgapType] != "true" {
		t.Fatalf("expected boolean tag set, got %q", tags[sitecode.PostgapType])
	}
	if rest != "Some free text\nTrailing note" {
		t.Fatalf("unexpected remainder %q", rest)
	}
}

func TestCodeTextRoundTrip(t *testing.T) {
	in := map[sitecode.Code]string{sitecode.TaitoID: "T-1", sitecode.Games: "A"}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"TaitoID":"T-1"`) {
		t.Fatalf("expected readable keys, got %s", data)
	}
	var out map[sitecode.Code]string
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out[sitecode.TaitoID] != "T-1" || out[sitecode.Games] != "A" {
		t.Fatalf("unexpected round trip %v", out)
	}
	if _, ok := sitecode.FromShortName("[T:TID]"); !ok {
		t.Fatal("expected short name lookup")
	}
}
