package derive

import (
	"strings"

	"discsub/internal/logging"
	"discsub/internal/submission"
)

// Rule is one named default-filling transform over a record.
type Rule struct {
	Name  string
	Apply func(*run)
}

var (
	mediaRules  = buildMediaRules()
	systemRules = buildSystemRules()
	finalRules  = []Rule{categoryDefaultRule, freeTextRule, mediaSubtypeRule}
)

// RuleNames lists the rules Derive applies for system and media, in order.
func RuleNames(system submission.System, media submission.MediaType) []string {
	var names []string
	for _, set := range [][]Rule{mediaRules[media], systemRules[system], finalRules} {
		for _, rule := range set {
			names = append(names, rule.Name)
		}
	}
	return names
}

func buildMediaRules() map[submission.MediaType][]Rule {
	table := map[submission.MediaType][]Rule{}
	for _, media := range submission.MediaTypes() {
		if submission.LayerGroupCount(media, submission.SizeAndChecksums{}) > 0 {
			table[media] = append(table[media], layersRule)
		}
		if media.IsCDFamily() {
			table[media] = append(table[media], errorsCountRule, ringOffsetRule)
		}
	}
	table[submission.MediaBluRay] = append(table[submission.MediaBluRay], picRule)
	return table
}

func buildSystemRules() map[submission.System][]Rule {
	table := map[submission.System][]Rule{}
	add := func(rule Rule, systems ...submission.System) {
		for _, system := range systems {
			table[system] = append(table[system], rule)
		}
	}

	add(regionRule(submission.RegionJapan),
		submission.NECPC88, submission.NECPC98, submission.NECPCFX, submission.FujitsuFMTowns,
		submission.SharpX68000, submission.BandaiPlaydia, submission.NamcoSystem246,
		submission.SonyElectronicBook, submission.SegaTriforce)
	add(regionRule(submission.RegionUSA),
		submission.MattelHyperScan, submission.ZAPiTGamesGameWaveFamily, submission.IncredibleTechEagle)

	add(categoryRule(submission.CategoryAudio), submission.AudioCD, submission.SuperAudioCD)
	add(categoryRule(submission.CategoryVideo),
		submission.DVDVideo, submission.BDVideo, submission.HDDVDVideo, submission.VideoCD)
	add(categoryRule(submission.CategoryMultimedia), submission.PhotoCD, submission.SonyElectronicBook)

	add(serialRule,
		submission.SonyPlayStation, submission.SonyPlayStation2, submission.SonyPlayStation3,
		submission.SonyPlayStation4, submission.SonyPlayStation5, submission.SonyPlayStationPortable,
		submission.SegaSaturn, submission.SegaDreamcast, submission.SegaMegaCD,
		submission.NintendoGameCube, submission.NintendoWii, submission.NintendoWiiU,
		submission.MicrosoftXbox, submission.MicrosoftXbox360, submission.MicrosoftXboxOne,
		submission.MicrosoftXboxSeriesXS, submission.NECPCEngineCD, submission.SNKNeoGeoCD)
	add(versionRule,
		submission.SonyPlayStation2, submission.SonyPlayStation3, submission.SonyPlayStation4,
		submission.SonyPlayStation5, submission.SonyPlayStationPortable,
		submission.SegaSaturn, submission.SegaDreamcast,
		submission.NintendoGameCube, submission.NintendoWii, submission.NintendoWiiU,
		submission.MicrosoftXbox, submission.MicrosoftXbox360, submission.MicrosoftXboxOne,
		submission.MicrosoftXboxSeriesXS)
	add(discKeyRule, submission.SonyPlayStation3)
	add(securitySectorRule, submission.MicrosoftXbox, submission.MicrosoftXbox360)
	add(antiModchipRule, submission.SonyPlayStation)
	add(libCryptRule, submission.SonyPlayStation)

	for _, system := range submission.Systems() {
		if system.HasEXEDate() {
			add(exeDateRule, system)
		}
		if system.SupportsProtectionScan() {
			add(protectionScanRule, system)
		}
	}
	return table
}

var layersRule = Rule{Name: "layers", Apply: func(r *run) {
	info := &r.rec.CommonDiscInfo
	n := submission.LayerGroupCount(info.Media, r.rec.SizeAndChecksums)
	layers := info.EnsureLayers(n)
	for i := range layers {
		r.fill(&layers[i].MasteringRing, submission.RequiredValue)
		r.fill(&layers[i].MasteringSID, submission.RequiredValue)
		r.fill(&layers[i].ToolstampMasteringCode, submission.RequiredValue)
		r.fill(&layers[i].MouldSID, submission.RequiredIfExistsValue)
		r.fill(&layers[i].AdditionalMould, submission.RequiredIfExistsValue)
	}
}}

var errorsCountRule = Rule{Name: "errors-count", Apply: func(r *run) {
	r.fill(&r.rec.CommonDiscInfo.ErrorsCount, submission.RequiredValue)
}}

var ringOffsetRule = Rule{Name: "ring-write-offset", Apply: func(r *run) {
	r.fill(&r.rec.CommonDiscInfo.RingWriteOffset, submission.RequiredIfExistsValue)
}}

var picRule = Rule{Name: "pic", Apply: func(r *run) {
	r.fill(&r.rec.Extras.PIC, submission.RequiredValue)
}}

func regionRule(region submission.Region) Rule {
	return Rule{Name: "region-" + region.Name(), Apply: func(r *run) {
		if r.rec.CommonDiscInfo.Region == submission.RegionUnknown {
			r.rec.CommonDiscInfo.Region = region
		}
	}}
}

func categoryRule(category submission.Category) Rule {
	return Rule{Name: "category-" + strings.ToLower(string(category)), Apply: func(r *run) {
		if r.rec.CommonDiscInfo.Category == submission.CategoryUnknown {
			r.rec.CommonDiscInfo.Category = category
		}
	}}
}

var serialRule = Rule{Name: "serial", Apply: func(r *run) {
	r.fill(&r.rec.CommonDiscInfo.Serial, submission.RequiredIfExistsValue)
}}

var versionRule = Rule{Name: "version", Apply: func(r *run) {
	r.fill(&r.rec.VersionAndEditions.Version, submission.RequiredIfExistsValue)
}}

var exeDateRule = Rule{Name: "exe-date", Apply: func(r *run) {
	r.fill(&r.rec.CommonDiscInfo.EXEDateBuildDate, submission.RequiredValue)
}}

var discKeyRule = Rule{Name: "disc-key", Apply: func(r *run) {
	r.fill(&r.rec.Extras.DiscKey, submission.RequiredValue)
	r.fill(&r.rec.Extras.DiscID, submission.RequiredValue)
}}

var securitySectorRule = Rule{Name: "security-sector", Apply: func(r *run) {
	r.fill(&r.rec.Extras.SecuritySectorRanges, submission.RequiredIfExistsValue)
}}

var antiModchipRule = Rule{Name: "anti-modchip", Apply: func(r *run) {
	if r.d.antiModchip == nil || r.rec.CopyProtection.AntiModchip != submission.YesNoUnset {
		return
	}
	verdict, err := r.d.antiModchip.DetectAntiModchip(r.ctx, r.rec)
	if err != nil {
		r.fail("anti-modchip", err)
		return
	}
	r.rec.CopyProtection.AntiModchip = verdict
}}

var libCryptRule = Rule{Name: "libcrypt", Apply: func(r *run) {
	if r.d.libCrypt == nil || r.rec.CopyProtection.LibCrypt != submission.YesNoUnset {
		return
	}
	if !strings.Contains(strings.ToLower(r.rec.DumpingInfo.DumpingProgram), "discimagecreator") {
		return
	}
	verdict, data, err := r.d.libCrypt.DetectLibCrypt(r.ctx, r.rec)
	if err != nil {
		r.fail("libcrypt", err)
		return
	}
	r.rec.CopyProtection.LibCrypt = verdict
	if verdict == submission.Yes {
		r.rec.CopyProtection.LibCryptData = strings.TrimSpace(data)
	}
}}

var protectionScanRule = Rule{Name: "protection-scan", Apply: func(r *run) {
	if r.d.scanner == nil {
		return
	}
	found, err := r.d.scanner.ScanProtection(r.ctx, r.rec)
	if err != nil {
		r.fail("protection-scan", err)
		return
	}
	cp := &r.rec.CopyProtection
	if summary := strings.TrimSpace(found.Summary); summary != "" {
		switch {
		case submission.IsUnset(cp.Protection):
			cp.Protection = summary
		case !strings.Contains(cp.Protection, summary):
			cp.Protection += ", " + summary
		}
	}
	if len(found.Findings) > 0 {
		if cp.FullProtections == nil {
			cp.FullProtections = make(map[string]string, len(found.Findings))
		}
		for path, value := range found.Findings {
			cp.FullProtections[path] = value
		}
	}
	r.logger.Debug("protection scan merged",
		logging.String("protection", cp.Protection),
		logging.Int("findings", len(found.Findings)))
}}

var categoryDefaultRule = Rule{Name: "category-default", Apply: func(r *run) {
	if r.rec.CommonDiscInfo.Category == submission.CategoryUnknown {
		r.rec.CommonDiscInfo.Category = submission.CategoryGames
	}
}}

var freeTextRule = Rule{Name: "free-text", Apply: func(r *run) {
	r.fill(&r.rec.CommonDiscInfo.Comments, submission.OptionalValue)
	r.fill(&r.rec.CommonDiscInfo.Contents, submission.OptionalValue)
}}

var mediaSubtypeRule = Rule{Name: "media-subtype", Apply: func(r *run) {
	info := &r.rec.CommonDiscInfo
	info.MediaSubtype = submission.MediaSubtype(info.Media, r.rec.SizeAndChecksums)
}}
