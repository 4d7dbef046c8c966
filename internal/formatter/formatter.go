package formatter

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"discsub/internal/submission"
)

// Options tune report rendering.
type Options struct {
	// RedumpCompatibility restricts the report to what the catalog accepts:
	// catalog-computed layerbreaks, dumper status and per-path protection
	// findings are left out.
	RedumpCompatibility bool
}

// section appends one part of the report.
type section func(w *lineWriter, rec *submission.Record, opts Options)

var reportSections = []section{
	func(w *lineWriter, rec *submission.Record, _ Options) { w.crossReferences(rec) },
	func(w *lineWriter, rec *submission.Record, _ Options) { w.commonDiscInfo(rec) },
	func(w *lineWriter, rec *submission.Record, _ Options) { w.versionAndEditions(rec) },
	func(w *lineWriter, rec *submission.Record, _ Options) { w.edc(rec) },
	func(w *lineWriter, rec *submission.Record, _ Options) { w.extras(rec) },
	func(w *lineWriter, rec *submission.Record, opts Options) { w.copyProtection(rec, opts) },
	func(w *lineWriter, rec *submission.Record, opts Options) {
		if !opts.RedumpCompatibility {
			w.dumpersAndStatus(rec)
		}
	},
	func(w *lineWriter, rec *submission.Record, opts Options) {
		if rec.CommonDiscInfo.Media.IsCDFamily() {
			w.tracksAndWriteOffsets(rec)
		} else {
			w.sizeAndChecksums(rec, opts)
		}
	},
	func(w *lineWriter, rec *submission.Record, _ Options) { w.dumpingInfo(rec) },
}

// Format renders rec into report lines. A failure while rendering yields an
// error and no lines.
func Format(rec *submission.Record, opts Options) ([]string, error) {
	return render(rec, opts, reportSections)
}

func render(rec *submission.Record, opts Options, sections []section) (lines []string, err error) {
	if rec == nil {
		return nil, fmt.Errorf("error formatting submission info: record is nil")
	}
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = fmt.Errorf("error formatting submission info: %v", r)
		}
	}()

	w := &lineWriter{}
	for _, s := range sections {
		s(w, rec, opts)
	}

	out := CollapseBlankLines(w.lines)
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out, nil
}

// Text joins report lines into the report file body.
func Text(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func (w *lineWriter) crossReferences(rec *submission.Record) {
	wrote := false
	if rec.FullyMatchedID != nil {
		w.line(fmt.Sprintf("[Fully Matching ID: %d]", *rec.FullyMatchedID))
		wrote = true
	}
	if len(rec.PartiallyMatchedIDs) > 0 {
		ids := make([]string, 0, len(rec.PartiallyMatchedIDs))
		for _, id := range rec.PartiallyMatchedIDs {
			ids = append(ids, strconv.Itoa(id))
		}
		w.line("[Partially Matching IDs: " + strings.Join(ids, ", ") + "]")
		wrote = true
	}
	if wrote {
		w.blank()
	}
}

func (w *lineWriter) commonDiscInfo(rec *submission.Record) {
	info := rec.CommonDiscInfo
	w.header("Common Disc Info")
	w.field(1, "Title", info.Title, false, false)
	w.field(1, "Foreign Title (Non-latin)", info.ForeignTitleNonLatin, false, false)
	w.field(1, "Disc Number / Letter", info.DiscNumberLetter, false, false)
	w.field(1, "Disc Title", info.DiscTitle, false, false)
	w.field(1, "System", info.System.Name(), false, false)
	w.field(1, "Media Type", mediaName(rec), false, false)
	w.field(1, "Category", string(info.Category), false, false)
	w.field(1, "Region", regionName(info.Region), false, false)
	w.field(1, "Languages", submission.LanguageNames(info.Languages), false, false)
	w.field(1, "Language Selection", strings.Join(info.LanguageSelection, ", "), false, false)
	w.field(1, "Disc Serial", info.Serial, false, false)
	w.blank()
	w.rings(rec)
	w.field(1, "Barcode", info.Barcode, false, false)
	w.field(1, "EXE/Build Date", info.EXEDateBuildDate, false, false)
	w.field(1, "Error Count", info.ErrorsCount, false, false)
	w.field(1, "Ring Write Offset", info.RingWriteOffset, false, false)
	w.field(1, "Comments", info.Comments, true, false)
	w.field(1, "Contents", info.Contents, true, false)
	w.blank()
}

func (w *lineWriter) versionAndEditions(rec *submission.Record) {
	v := rec.VersionAndEditions
	w.header("Version and Editions")
	w.field(1, "Version", v.Version, false, false)
	w.field(1, "Edition/Release", v.Edition, false, false)
	w.field(1, "Other Editions", v.OtherEditions, false, false)
	w.blank()
}

func (w *lineWriter) edc(rec *submission.Record) {
	if rec.CommonDiscInfo.System != submission.SonyPlayStation {
		return
	}
	w.header("EDC")
	w.field(1, "EDC", string(rec.EDC.EDC), false, false)
	w.blank()
}

func (w *lineWriter) extras(rec *submission.Record) {
	e := rec.Extras
	if e == (submission.Extras{}) {
		return
	}
	w.header("Extras")
	w.field(1, "Primary Volume Descriptor (PVD)", e.PVD, true, true)
	w.field(1, "Disc Key", e.DiscKey, false, false)
	w.field(1, "Disc ID", e.DiscID, false, false)
	w.field(1, "Permanent Information & Control (PIC)", e.PIC, true, false)
	w.field(1, "Header", e.Header, true, true)
	w.field(1, "BCA", e.BCA, true, false)
	w.field(1, "Security Sector Ranges", e.SecuritySectorRanges, true, false)
	w.blank()
}

func (w *lineWriter) copyProtection(rec *submission.Record, opts Options) {
	cp := rec.CopyProtection
	details := ""
	if !opts.RedumpCompatibility {
		details = FullProtections(cp.FullProtections)
	}
	if cp.AntiModchip == "" && cp.LibCrypt == "" && cp.LibCryptData == "" &&
		cp.Protection == "" && cp.SecuROMData == "" && details == "" {
		return
	}
	w.header("Copy Protection")
	w.field(1, "Anti-modchip", string(cp.AntiModchip), false, false)
	w.field(1, "LibCrypt", string(cp.LibCrypt), false, false)
	w.field(1, "LibCrypt Data", cp.LibCryptData, true, false)
	w.field(1, "Copy Protection", cp.Protection, false, false)
	w.field(1, "SecuROM Data", cp.SecuROMData, true, false)
	w.field(1, "Copy Protection Details", details, true, false)
	w.blank()
}

// FullProtections renders per-path findings sorted by path.
func FullProtections(findings map[string]string) string {
	if len(findings) == 0 {
		return ""
	}
	paths := make([]string, 0, len(findings))
	for path := range findings {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	var b strings.Builder
	for _, path := range paths {
		value := findings[path]
		if value == "" {
			value = "None found"
		}
		fmt.Fprintf(&b, "%s: %s\n", path, value)
	}
	return b.String()
}

func (w *lineWriter) dumpersAndStatus(rec *submission.Record) {
	d := rec.DumpersAndStatus
	if d.Status == "" && len(d.Dumpers) == 0 && d.OtherDumpers == "" {
		return
	}
	w.header("Dumpers and Status")
	w.field(1, "Status", d.Status, false, false)
	w.field(1, "Dumpers", strings.Join(d.Dumpers, ", "), false, false)
	w.field(1, "Other Dumpers", d.OtherDumpers, false, false)
	w.blank()
}

func (w *lineWriter) tracksAndWriteOffsets(rec *submission.Record) {
	t := rec.TracksAndWriteOffsets
	w.header("Tracks and Write Offsets")
	w.field(1, "DAT", t.ClrMameProData, true, false)
	w.field(1, "Cuesheet", t.Cuesheet, true, true)
	w.field(1, "Write Offset", t.CommonWriteOffsets, false, false)
	w.field(1, "Other Write Offsets", t.OtherWriteOffsets, false, false)
	w.blank()
}

// suppressLayerbreak reports whether the layerbreak lines are left out: the
// catalog computes them itself for BD and XGD media.
func suppressLayerbreak(rec *submission.Record, opts Options) bool {
	if !opts.RedumpCompatibility {
		return false
	}
	return rec.CommonDiscInfo.Media == submission.MediaBluRay || rec.CommonDiscInfo.System.IsXGD()
}

func (w *lineWriter) sizeAndChecksums(rec *submission.Record, opts Options) {
	s := rec.SizeAndChecksums
	w.header("Size & Checksum")
	w.field(1, "DAT", rec.TracksAndWriteOffsets.ClrMameProData, true, false)
	if !suppressLayerbreak(rec, opts) {
		w.field(1, "Layerbreak", formatInt(s.Layerbreak), false, false)
		w.field(1, "Layerbreak 2", formatInt(s.Layerbreak2), false, false)
		w.field(1, "Layerbreak 3", formatInt(s.Layerbreak3), false, false)
	}
	w.field(1, "Size", formatInt(s.Size), false, false)
	w.field(1, "CRC32", s.CRC32, false, false)
	w.field(1, "MD5", s.MD5, false, false)
	w.field(1, "SHA1", s.SHA1, false, false)
	w.blank()
}

func (w *lineWriter) dumpingInfo(rec *submission.Record) {
	d := rec.DumpingInfo
	w.header("Dumping Info")
	w.field(1, "Frontend Version", d.FrontendVersion, false, false)
	w.field(1, "Dumping Program", d.DumpingProgram, false, false)
	w.field(1, "Date", d.DumpingDate, false, false)
	w.field(1, "Parameters", d.DumpingParameters, false, false)
	w.field(1, "Manufacturer", d.Manufacturer, false, false)
	w.field(1, "Model", d.Model, false, false)
	w.field(1, "Firmware", d.Firmware, false, false)
	w.field(1, "Reported Disc Type", d.ReportedDiscType, false, false)
	w.field(1, "C2 Error Count", d.C2ErrorsCount, false, false)
	w.blank()
}

// mediaName recomputes the subtype from the current sizes so a record edited
// after derivation never shows a stale value.
func mediaName(rec *submission.Record) string {
	info := rec.CommonDiscInfo
	if subtype := submission.MediaSubtype(info.Media, rec.SizeAndChecksums); subtype != "" {
		return subtype
	}
	return info.MediaSubtype
}

func regionName(r submission.Region) string {
	if r == submission.RegionUnknown {
		return ""
	}
	return r.Name()
}

func formatInt(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}
