package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const detailPage = `<html><body>
<h1>Example Game (Disc 2)</h1>
<h2>エグザンプル</h2>
<table>
<tr><th>System</th><td><a href="/discs/system/psx/">Sony PlayStation</a></td></tr>
<tr><th>Category</th><td>Games</td></tr>
<tr><th>Region</th><td><a href="/discs/region/U/"><img src="/images/flags/U.png" /></a></td></tr>
<tr><th>Languages</th><td><img src="/images/languages/en.png" title="English" /><img src="/images/languages/fr.png" title="French" /></td></tr>
<tr><th>Serial</th><td>SLUS-12345</td></tr>
<tr><th>Edition</th><td>Original</td></tr>
<tr><th>Number of tracks</th><td>2</td></tr>
<tr><th>Dumpers</th><td><a href="/discs/dumper/alice/">alice</a>, <a href="/discs/dumper/bob%20b/">bob b</a></td></tr>
<tr><th>Added</th><td>2020-01-02 03:04</td></tr>
<tr><th>Last modified</th><td>2023-05-06 07:08</td></tr>
<tr><th>Comments</th></tr><tr><td><b>Internal Serial</b>: SLUS_123.45<br />Tom &amp; Jerry</td></tr>
<tr><th>Contents</th></tr><tr><td><b>Games</b>:<br />Game A<br />Game B</td></tr>
</table></body></html>`

type fakeCatalog struct {
	logins   atomic.Int32
	searches atomic.Int32
	password string
}

func (f *fakeCatalog) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`<form><input type="hidden" name="csrf_token" value="tok123" /><input type="password" name="password" /></form>`))
			return
		}
		f.logins.Add(1)
		_ = r.ParseForm()
		if r.Form.Get("csrf_token") != "tok123" || r.Form.Get("password") != f.password {
			_, _ = w.Write([]byte(`<form><input type="password" name="password" /></form>`))
			return
		}
		_, _ = w.Write([]byte(`welcome`))
	})
	mux.HandleFunc("/discs/quicksearch/", func(w http.ResponseWriter, r *http.Request) {
		f.searches.Add(1)
		query := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/discs/quicksearch/"), "/")
		switch query {
		case "many":
			if r.URL.Query().Get("page") == "1" {
				_, _ = w.Write([]byte(`<a href="/disc/10/">A</a><a href="/disc/42/">B</a>`))
				return
			}
			_, _ = w.Write([]byte(`<a href="/disc/99/">C</a>`))
		case "single":
			http.Redirect(w, r, "/disc/7/", http.StatusFound)
		case "abc/comments/only":
			_, _ = w.Write([]byte(`<a href="/disc/5/">U</a>`))
		case "flaky":
			http.Error(w, "busy", http.StatusServiceUnavailable)
		default:
			_, _ = w.Write([]byte(`no results`))
		}
	})
	mux.HandleFunc("/disc/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(detailPage))
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeCatalog, retries int) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(f.handler())
	t.Cleanup(server.Close)
	client, err := New(Config{
		BaseURL:        server.URL,
		Username:       "dumper",
		Password:       "secret",
		RequestTimeout: 2 * time.Second,
		MaxRetries:     retries,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestSearchPagesUntilSingleResult(t *testing.T) {
	f := &fakeCatalog{password: "secret"}
	client := newTestClient(t, f, 0)

	ids, err := client.ListByHash(context.Background(), "many")
	if err != nil {
		t.Fatalf("ListByHash: %v", err)
	}
	if len(ids) != 3 || ids[0] != 10 || ids[1] != 42 || ids[2] != 99 {
		t.Fatalf("unexpected ids %v", ids)
	}
	if got := f.searches.Load(); got != 2 {
		t.Fatalf("expected 2 page requests, got %d", got)
	}

	ids, err = client.ListByHash(context.Background(), "single")
	if err != nil {
		t.Fatalf("ListByHash(single): %v", err)
	}
	if len(ids) != 1 || ids[0] != 7 {
		t.Fatalf("expected redirect to yield [7], got %v", ids)
	}
	if got := f.logins.Load(); got != 1 {
		t.Fatalf("expected one login, got %d", got)
	}
}

func TestUniversalHashQueryKeepsSlashes(t *testing.T) {
	f := &fakeCatalog{password: "secret"}
	client := newTestClient(t, f, 0)
	ids, err := client.ListByUniversalHash(context.Background(), "abc==")
	if err != nil {
		t.Fatalf("ListByUniversalHash: %v", err)
	}
	if len(ids) != 1 || ids[0] != 5 {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestBadCredentials(t *testing.T) {
	f := &fakeCatalog{password: "other"}
	client := newTestClient(t, f, 0)
	_, err := client.ListByHash(context.Background(), "many")
	if !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestServerErrorIsRetriedThenReported(t *testing.T) {
	f := &fakeCatalog{password: "secret"}
	client := newTestClient(t, f, 1)
	_, err := client.ListByHash(context.Background(), "flaky")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 status error, got %v", err)
	}
	if got := f.searches.Load(); got != 2 {
		t.Fatalf("expected one retry, got %d requests", got)
	}
}

func TestFetchDiscParsesDetailPage(t *testing.T) {
	f := &fakeCatalog{password: "secret"}
	client := newTestClient(t, f, 0)
	page, err := client.FetchDisc(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchDisc: %v", err)
	}
	if page.ID != 10 || page.Title != "Example Game (Disc 2)" || page.ForeignTitle != "エグザンプル" {
		t.Fatalf("unexpected titles: %+v", page)
	}
	if page.System != "psx" || page.Region != "U" || page.Category != "Games" || page.TrackCount != 2 {
		t.Fatalf("unexpected fields: %+v", page)
	}
	if strings.Join(page.Languages, ",") != "en,fr" || strings.Join(page.Dumpers, ",") != "alice,bob b" {
		t.Fatalf("unexpected lists: %v %v", page.Languages, page.Dumpers)
	}
	if page.Comments != "<b>Internal Serial</b>: SLUS_123.45\nTom & Jerry" {
		t.Fatalf("unexpected comments %q", page.Comments)
	}
	if page.Contents != "<b>Games</b>:\nGame A\nGame B" {
		t.Fatalf("unexpected contents %q", page.Contents)
	}
	if page.Added != "2020-01-02 03:04" || page.LastModified != "2023-05-06 07:08" {
		t.Fatalf("unexpected timestamps %q %q", page.Added, page.LastModified)
	}
}

func TestSanitizeQuery(t *testing.T) {
	if got := SanitizeQuery("a/b c?d", false); got != "a-b-c-d" {
		t.Fatalf("got %q", got)
	}
	if got := SanitizeQuery("a/b c", true); got != "a/b-c" {
		t.Fatalf("got %q", got)
	}
}
