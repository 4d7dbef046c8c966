package derive_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"discsub/internal/derive"
	"discsub/internal/logging"
	"discsub/internal/services"
	"discsub/internal/submission"
)

func TestLayerScaffolding(t *testing.T) {
	tests := []struct {
		name  string
		media submission.MediaType
		sizes submission.SizeAndChecksums
		want  int
	}{
		{"cd", submission.MediaCDROM, submission.SizeAndChecksums{}, 1},
		{"gd", submission.MediaGDROM, submission.SizeAndChecksums{}, 1},
		{"dvd single layer", submission.MediaDVD, submission.SizeAndChecksums{}, 2},
		{"dvd dual layer", submission.MediaDVD, submission.SizeAndChecksums{Layerbreak: 2_000_000}, 2},
		{"bd triple layer", submission.MediaBluRay, submission.SizeAndChecksums{Layerbreak: 1, Layerbreak2: 2}, 3},
		{"bd quad layer", submission.MediaBluRay, submission.SizeAndChecksums{Layerbreak: 1, Layerbreak2: 2, Layerbreak3: 3}, 4},
		{"umd", submission.MediaUMD, submission.SizeAndChecksums{}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := submission.New(submission.IBMPCCompatible, tt.media)
			rec.SizeAndChecksums = tt.sizes
			derive.New(logging.NewNop()).Derive(context.Background(), rec, derive.Options{AddPlaceholders: true})
			if got := len(rec.CommonDiscInfo.Layers); got != tt.want {
				t.Fatalf("expected %d layer groups, got %d", tt.want, got)
			}
			for i, layer := range rec.CommonDiscInfo.Layers {
				if layer.MasteringRing != submission.RequiredValue || layer.MouldSID != submission.RequiredIfExistsValue {
					t.Fatalf("layer %d not scaffolded: %+v", i, layer)
				}
			}
		})
	}
}

func TestPlaceholdersDisabledLeavesFieldsEmpty(t *testing.T) {
	rec := submission.New(submission.SonyPlayStation2, submission.MediaDVD)
	derive.New(nil).Derive(context.Background(), rec, derive.Options{})

	info := rec.CommonDiscInfo
	if len(info.Layers) != 2 {
		t.Fatalf("expected scaffolded groups, got %d", len(info.Layers))
	}
	if !info.Layers[0].IsZero() || info.Serial != "" || info.EXEDateBuildDate != "" || info.Comments != "" {
		t.Fatalf("expected empty fields without placeholders: %+v", info)
	}
	if info.Category != submission.CategoryGames || info.MediaSubtype != "DVD-5" {
		t.Fatalf("finalization missing: %q %q", info.Category, info.MediaSubtype)
	}
}

func TestSystemRulesKeepLocalValues(t *testing.T) {
	rec := submission.New(submission.NECPC98, submission.MediaCDROM)
	rec.CommonDiscInfo.Region = submission.RegionUSA
	rec.CommonDiscInfo.Comments = "local note"
	derive.New(nil).Derive(context.Background(), rec, derive.Options{AddPlaceholders: true})

	if rec.CommonDiscInfo.Region != submission.RegionUSA {
		t.Fatalf("region overwritten: %q", rec.CommonDiscInfo.Region)
	}
	if rec.CommonDiscInfo.Comments != "local note" || rec.CommonDiscInfo.Contents != submission.OptionalValue {
		t.Fatalf("unexpected free text %q %q", rec.CommonDiscInfo.Comments, rec.CommonDiscInfo.Contents)
	}

	fresh := submission.New(submission.NECPC98, submission.MediaCDROM)
	derive.New(nil).Derive(context.Background(), fresh, derive.Options{})
	if fresh.CommonDiscInfo.Region != submission.RegionJapan {
		t.Fatalf("expected Japan default, got %q", fresh.CommonDiscInfo.Region)
	}
}

func TestCategoryDefaults(t *testing.T) {
	tests := map[submission.System]submission.Category{
		submission.AudioCD:         submission.CategoryAudio,
		submission.DVDVideo:        submission.CategoryVideo,
		submission.SonyPlayStation: submission.CategoryGames,
	}
	for system, want := range tests {
		rec := submission.New(system, submission.MediaCDROM)
		derive.New(nil).Derive(context.Background(), rec, derive.Options{})
		if rec.CommonDiscInfo.Category != want {
			t.Errorf("%s: expected %q, got %q", system, want, rec.CommonDiscInfo.Category)
		}
	}
}

func TestRuleNamesAreOrdered(t *testing.T) {
	names := derive.RuleNames(submission.SonyPlayStation, submission.MediaCDROM)
	want := []string{
		"layers", "errors-count", "ring-write-offset",
		"serial", "anti-modchip", "libcrypt", "exe-date",
		"category-default", "free-text", "media-subtype",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("rule order mismatch (-want +got):\n%s", diff)
	}
	if !slices.Contains(derive.RuleNames(submission.IBMPCCompatible, submission.MediaCDROM), "protection-scan") {
		t.Fatal("expected protection scan for PC")
	}
	if slices.Contains(derive.RuleNames(submission.SegaSaturn, submission.MediaCDROM), "protection-scan") {
		t.Fatal("protection scan must be limited to supported systems")
	}
}

func TestPlayStationCollaborators(t *testing.T) {
	var modchipCalls, libcryptCalls int
	d := derive.New(logging.NewNop(),
		derive.WithAntiModchipDetector(derive.AntiModchipFunc(func(context.Context, *submission.Record) (submission.YesNo, error) {
			modchipCalls++
			return submission.Yes, nil
		})),
		derive.WithLibCryptDetector(derive.LibCryptFunc(func(context.Context, *submission.Record) (submission.YesNo, string, error) {
			libcryptCalls++
			return submission.Yes, "MSF: 00:01:02\n", nil
		})),
	)

	rec := submission.New(submission.SonyPlayStation, submission.MediaCDROM)
	rec.DumpingInfo.DumpingProgram = "DiscImageCreator 20231201"
	report := d.Derive(context.Background(), rec, derive.Options{})
	if report.Err() != nil {
		t.Fatalf("unexpected failures: %v", report.Err())
	}
	cp := rec.CopyProtection
	if cp.AntiModchip != submission.Yes || cp.LibCrypt != submission.Yes || cp.LibCryptData != "MSF: 00:01:02" {
		t.Fatalf("unexpected copy protection: %+v", cp)
	}

	reported := submission.New(submission.SonyPlayStation, submission.MediaCDROM)
	reported.CopyProtection.AntiModchip = submission.No
	reported.DumpingInfo.DumpingProgram = "Redumper"
	d.Derive(context.Background(), reported, derive.Options{})
	if modchipCalls != 1 || libcryptCalls != 1 {
		t.Fatalf("collaborators should be skipped: modchip=%d libcrypt=%d", modchipCalls, libcryptCalls)
	}
}

func TestCollaboratorFailureIsReported(t *testing.T) {
	d := derive.New(logging.NewNop(), derive.WithProtectionScanner(derive.ProtectionFunc(
		func(context.Context, *submission.Record) (derive.Protection, error) {
			return derive.Protection{}, errors.New("scanner crashed")
		})))
	rec := submission.New(submission.IBMPCCompatible, submission.MediaCDROM)
	rec.CopyProtection.Protection = "SafeDisc 2"

	report := d.Derive(context.Background(), rec, derive.Options{AddPlaceholders: true})
	if len(report.Failures) != 1 || report.Failures[0].Rule != "protection-scan" {
		t.Fatalf("expected one protection failure, got %+v", report.Failures)
	}
	if !errors.Is(report.Err(), services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", report.Err())
	}
	if rec.CopyProtection.Protection != "SafeDisc 2" {
		t.Fatalf("protection changed on failure: %q", rec.CopyProtection.Protection)
	}
	if rec.CommonDiscInfo.MediaSubtype != "CD-ROM" {
		t.Fatalf("later rules must still run, subtype %q", rec.CommonDiscInfo.MediaSubtype)
	}
}

type fakeExecutor struct {
	binary string
	args   []string
	output string
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string) ([]byte, error) {
	f.binary = binary
	f.args = args
	return []byte(f.output), nil
}

func TestCommandScannerMergesFindings(t *testing.T) {
	exec := &fakeExecutor{output: "/mnt/disc/SETUP.EXE: SafeDisc 2.90.040\n/mnt/disc/GAME.DAT: SafeDisc 2.90.040, CD-Cops\nScanning complete\n"}
	scanner := derive.NewCommandScannerWithExecutor("protscan", []string{"--json=false"}, "/mnt/disc", exec)
	d := derive.New(nil, derive.WithProtectionScanner(scanner))

	rec := submission.New(submission.IBMPCCompatible, submission.MediaCDROM)
	d.Derive(context.Background(), rec, derive.Options{})

	if exec.binary != "protscan" || !slices.Equal(exec.args, []string{"--json=false", "/mnt/disc"}) {
		t.Fatalf("unexpected invocation %s %v", exec.binary, exec.args)
	}
	cp := rec.CopyProtection
	if cp.Protection != "SafeDisc 2.90.040, CD-Cops" {
		t.Fatalf("unexpected summary %q", cp.Protection)
	}
	want := map[string]string{"SETUP.EXE": "SafeDisc 2.90.040", "GAME.DAT": "SafeDisc 2.90.040, CD-Cops"}
	if diff := cmp.Diff(want, cp.FullProtections); diff != "" {
		t.Fatalf("findings mismatch (-want +got):\n%s", diff)
	}
}

func TestFileAntiModchipScanner(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "SLUS_000.01"), []byte("junk     SOFTWARE TERMINATED\nCONSOLE MAY HAVE BEEN MODIFIED\n     CALL 1-888-780-7690 junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	verdict, err := derive.FileAntiModchipScanner{Root: root}.DetectAntiModchip(context.Background(), nil)
	if err != nil || verdict != submission.Yes {
		t.Fatalf("expected detection, got %q %v", verdict, err)
	}

	clean := t.TempDir()
	if err := os.WriteFile(filepath.Join(clean, "SYSTEM.CNF"), []byte("BOOT = cdrom:\\SLUS_000.01;1"), 0o644); err != nil {
		t.Fatal(err)
	}
	verdict, err = derive.FileAntiModchipScanner{Root: clean}.DetectAntiModchip(context.Background(), nil)
	if err != nil || verdict != submission.No {
		t.Fatalf("expected clean verdict, got %q %v", verdict, err)
	}
}

func TestRelayoutAfterLayerbreaksChange(t *testing.T) {
	rec := submission.New(submission.SonyPlayStation4, submission.MediaBluRay)
	d := derive.New(logging.NewNop())
	d.Derive(context.Background(), rec, derive.Options{AddPlaceholders: true})
	rec.CommonDiscInfo.Layers[0].MasteringRing = "RING 0"
	if len(rec.CommonDiscInfo.Layers) != 2 || rec.CommonDiscInfo.MediaSubtype != "BD25" {
		t.Fatalf("unexpected derived layout: %d %q", len(rec.CommonDiscInfo.Layers), rec.CommonDiscInfo.MediaSubtype)
	}

	rec.SizeAndChecksums.Layerbreak = 1
	rec.SizeAndChecksums.Layerbreak2 = 2
	rec.SizeAndChecksums.Layerbreak3 = 3
	d.Relayout(context.Background(), rec, derive.Options{AddPlaceholders: true})

	info := rec.CommonDiscInfo
	if len(info.Layers) != 4 || info.MediaSubtype != "BD128" {
		t.Fatalf("layout not refreshed: %d %q", len(info.Layers), info.MediaSubtype)
	}
	if info.Layers[0].MasteringRing != "RING 0" {
		t.Fatalf("existing value lost: %q", info.Layers[0].MasteringRing)
	}
	if info.Layers[3].MasteringSID != submission.RequiredValue {
		t.Fatalf("new group not scaffolded: %+v", info.Layers[3])
	}
}
