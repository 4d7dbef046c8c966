package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"discsub/internal/config"
	"discsub/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("DISCSUB_CATALOG_USERNAME", "")
	t.Setenv("DISCSUB_CATALOG_PASSWORD", "")

	configPath := filepath.Join(base, "discsub.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
output_dir = %q
log_dir = %q
state_dir = %q

[catalog]
base_url = %q
username = %q
password = %q
request_timeout_seconds = 5
max_retries = 0

[catalog_cache]
enabled = %t
backend = %q
path = %q

[submission]
add_placeholders = %t
redump_compatibility = %t
write_json = %t
compress_json = %t

[watch]
dir = %q
settle_seconds = 1
`,
		cfg.Paths.OutputDir, cfg.Paths.LogDir, cfg.Paths.StateDir,
		cfg.Catalog.BaseURL, cfg.Catalog.Username, cfg.Catalog.Password,
		cfg.CatalogCache.Enabled, cfg.CatalogCache.Backend, cfg.CatalogCache.Path,
		cfg.Submission.AddPlaceholders, cfg.Submission.RedumpCompatibility,
		cfg.Submission.WriteJSON, cfg.Submission.CompressJSON,
		cfg.Watch.Dir,
	)
	testsupport.WriteFile(t, path, content)
}

const catalogDetailPage = `<html><body>
<h1>Ridge Racer (Disc 1)</h1>
<table>
<tr><th>Category</th><td>Games</td></tr>
<tr><th>Region</th><td><a href="/discs/region/J/"><img src="/images/flags/J.png" /></a></td></tr>
<tr><th>Serial</th><td>SLPS-00001</td></tr>
<tr><th>Number of tracks</th><td>1</td></tr>
<tr><th>Added</th><td>2020-01-02 03:04</td></tr>
<tr><th>Last modified</th><td>2023-05-06 07:08</td></tr>
</table></body></html>`

// fakeCatalog serves a catalog knowing one disc, ID 10, with a single track
// hashed "deadbeef".
func fakeCatalog(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`<form><input type="hidden" name="csrf_token" value="tok" /><input type="password" name="password" /></form>`))
			return
		}
		_, _ = w.Write([]byte(`welcome`))
	})
	mux.HandleFunc("/discs/quicksearch/", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "deadbeef") {
			http.Redirect(w, r, "/disc/10/", http.StatusFound)
			return
		}
		_, _ = w.Write([]byte(`no results`))
	})
	mux.HandleFunc("/disc/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(catalogDetailPage))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

const testDAT = `<rom name="Ridge Racer (Track 1).bin" size="1" crc="00000000" md5="00000000000000000000000000000000" sha1="deadbeef" />`

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
