package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"discsub/internal/submission"
	"discsub/internal/testsupport"
)

func writeDumpRecord(t *testing.T, env *cliTestEnv, name string) string {
	t.Helper()
	rec := submission.New(submission.SonyPlayStation, submission.MediaCDROM)
	rec.CommonDiscInfo.Title = "Local"
	rec.SizeAndChecksums.Size = 1
	path := filepath.Join(env.baseDir, "dumps", name+".dump.json")
	testsupport.WriteRecord(t, path, rec)
	return path
}

func TestProcessWithoutCredentialsWritesReport(t *testing.T) {
	env := setupCLITestEnv(t)
	input := writeDumpRecord(t, env, "Game")

	out, _, err := runCLI(t, []string{"process", "--input", input}, env.configPath)
	if err != nil {
		t.Fatalf("process: %v\n%s", err, out)
	}
	requireContains(t, out, "Status:  unmatched")

	reportPath := filepath.Join(env.cfg.Paths.OutputDir, "Game_submissionInfo.txt")
	report := testsupport.ReadFile(t, reportPath)
	requireContains(t, report, "Common Disc Info:")
	requireContains(t, report, "Title: Local")

	history, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, history, "Game")
	requireContains(t, history, "unmatched")
}

func TestProcessDetectsLibCryptFromSubchannel(t *testing.T) {
	env := setupCLITestEnv(t)
	rec := submission.New(submission.SonyPlayStation, submission.MediaCDROM)
	rec.CommonDiscInfo.Title = "Protected"
	rec.DumpingInfo.DumpingProgram = "DiscImageCreator 20231201"
	input := filepath.Join(env.baseDir, "dumps", "Protected.dump.json")
	testsupport.WriteRecord(t, input, rec)

	// One sector whose Q channel CRC does not match its data.
	sector := make([]byte, 96)
	copy(sector[12:], []byte{0x41, 0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x00, 0xde, 0xad})
	testsupport.WriteFile(t, filepath.Join(env.baseDir, "dumps", "Protected.sub"), string(sector))

	out, _, err := runCLI(t, []string{"process", "--input", input}, env.configPath)
	if err != nil {
		t.Fatalf("process: %v\n%s", err, out)
	}
	report := testsupport.ReadFile(t, filepath.Join(env.cfg.Paths.OutputDir, "Protected_submissionInfo.txt"))
	requireContains(t, report, "LibCrypt: Yes")
	requireContains(t, report, "MSF: 00:02:00")
}

func TestProcessMatchesAgainstCatalog(t *testing.T) {
	srv := fakeCatalog(t)
	env := setupCLITestEnv(t, testsupport.WithCatalog(srv.URL, "dumper", "secret"))
	input := writeDumpRecord(t, env, "Ridge")
	datPath := filepath.Join(env.baseDir, "dumps", "Ridge.dat")
	testsupport.WriteFile(t, datPath, testDAT)

	out, _, err := runCLI(t, []string{"process", "--input", input, "--dat", datPath, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("process: %v\n%s", err, out)
	}
	var summary processSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	if summary.Status != "matched" || summary.FullyMatchedID == nil || *summary.FullyMatchedID != 10 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	report := testsupport.ReadFile(t, summary.ReportPath)
	if !strings.HasPrefix(report, "[Fully Matching ID: 10]") {
		t.Fatalf("report missing match header:\n%s", report)
	}
	requireContains(t, report, "Title: Ridge Racer")

	show, _, err := runCLI(t, []string{"history", "show", summary.RunID}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, show, "Match:    10")
}

func TestProcessAppliesSiblingSeed(t *testing.T) {
	env := setupCLITestEnv(t)
	input := writeDumpRecord(t, env, "Seeded")
	seed := &submission.Record{}
	seed.CommonDiscInfo.Title = "From Seed"
	testsupport.WriteRecord(t, filepath.Join(filepath.Dir(input), "Seeded.seed.json"), seed)

	if _, _, err := runCLI(t, []string{"process", "--input", input}, env.configPath); err != nil {
		t.Fatalf("process: %v", err)
	}
	report := testsupport.ReadFile(t, filepath.Join(env.cfg.Paths.OutputDir, "Seeded_submissionInfo.txt"))
	requireContains(t, report, "Title: From Seed")
}

func TestFormatRerendersStoredRecord(t *testing.T) {
	env := setupCLITestEnv(t)
	input := writeDumpRecord(t, env, "Again")
	if _, _, err := runCLI(t, []string{"process", "--input", input, "--name", "Again"}, env.configPath); err != nil {
		t.Fatalf("process: %v", err)
	}
	jsonPath := filepath.Join(env.cfg.Paths.OutputDir, "Again_submissionInfo.json")
	reportPath := filepath.Join(env.cfg.Paths.OutputDir, "Again_submissionInfo.txt")

	out, _, err := runCLI(t, []string{"format", "--record", jsonPath}, env.configPath)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if want := testsupport.ReadFile(t, reportPath); out != want {
		t.Fatalf("re-rendered report differs:\n--- got\n%s\n--- want\n%s", out, want)
	}
}

func TestProcessRequiresInput(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"process"}, env.configPath); err == nil {
		t.Fatal("expected error without --input")
	}
}

func TestMatchSkipsWithoutCredentials(t *testing.T) {
	env := setupCLITestEnv(t)
	datPath := filepath.Join(env.baseDir, "x.dat")
	testsupport.WriteFile(t, datPath, testDAT)

	out, _, err := runCLI(t, []string{"match", "--dat", datPath}, env.configPath)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	requireContains(t, out, "credentials not configured")
	requireContains(t, out, "Skipped")
}

func TestSitecodesListsTags(t *testing.T) {
	out, _, err := runCLI(t, []string{"sitecodes"}, "")
	if err != nil {
		t.Fatalf("sitecodes: %v", err)
	}
	requireContains(t, out, "[T:VCD]")
	requireContains(t, out, "flag")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Catalog matching: disabled")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}

func TestPreflightReportsDirectories(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.MkdirAll(env.cfg.Watch.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, []string{"preflight"}, env.configPath)
	if err != nil {
		t.Fatalf("preflight: %v\n%s", err, out)
	}
	requireContains(t, out, "Output directory:")
	requireContains(t, out, "[OK]")
}

func TestWatchRequiresDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Watch.Dir = ""
	writeTestConfig(t, env.configPath, env.cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", env.configPath, "watch"})
	if err := cmd.ExecuteContext(ctx); err == nil {
		t.Fatal("expected error without a watch directory")
	}
}
