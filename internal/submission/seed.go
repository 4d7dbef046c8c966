package submission

import "slices"

// ApplySeed overlays user-supplied seed values onto r. Seed values that are
// empty or placeholder tokens are ignored; everything else wins over the
// record. Seed tag maps merge into the record's maps, seed entries winning.
// System and media are fixed once a dump completes and are never overlaid.
func ApplySeed(r, seed *Record) {
	if r == nil || seed == nil {
		return
	}

	if seed.FullyMatchedID != nil {
		r.SetFullyMatched(*seed.FullyMatchedID)
	}
	if len(seed.PartiallyMatchedIDs) > 0 {
		r.SetPartiallyMatched(append(slices.Clone(r.PartiallyMatchedIDs), seed.PartiallyMatchedIDs...))
	}

	applyCommon(&r.CommonDiscInfo, &seed.CommonDiscInfo)

	v, sv := &r.VersionAndEditions, seed.VersionAndEditions
	overlay(&v.Version, sv.Version)
	overlay(&v.VersionDatfile, sv.VersionDatfile)
	overlay(&v.Edition, sv.Edition)
	overlay(&v.OtherEditions, sv.OtherEditions)

	if seed.EDC.EDC != YesNoUnset {
		r.EDC.EDC = seed.EDC.EDC
	}

	e, se := &r.Extras, seed.Extras
	overlay(&e.PVD, se.PVD)
	overlay(&e.DiscKey, se.DiscKey)
	overlay(&e.DiscID, se.DiscID)
	overlay(&e.PIC, se.PIC)
	overlay(&e.Header, se.Header)
	overlay(&e.BCA, se.BCA)
	overlay(&e.SecuritySectorRanges, se.SecuritySectorRanges)

	cp, scp := &r.CopyProtection, seed.CopyProtection
	if scp.AntiModchip != YesNoUnset {
		cp.AntiModchip = scp.AntiModchip
	}
	if scp.LibCrypt != YesNoUnset {
		cp.LibCrypt = scp.LibCrypt
	}
	overlay(&cp.LibCryptData, scp.LibCryptData)
	overlay(&cp.Protection, scp.Protection)
	overlay(&cp.SecuROMData, scp.SecuROMData)
	if len(scp.FullProtections) > 0 {
		if cp.FullProtections == nil {
			cp.FullProtections = make(map[string]string, len(scp.FullProtections))
		}
		for path, found := range scp.FullProtections {
			cp.FullProtections[path] = found
		}
	}

	d, sd := &r.DumpersAndStatus, seed.DumpersAndStatus
	overlay(&d.Status, sd.Status)
	overlay(&d.OtherDumpers, sd.OtherDumpers)
	if len(sd.Dumpers) > 0 {
		d.Dumpers = slices.Clone(sd.Dumpers)
	}

	t, st := &r.TracksAndWriteOffsets, seed.TracksAndWriteOffsets
	overlay(&t.ClrMameProData, st.ClrMameProData)
	overlay(&t.Cuesheet, st.Cuesheet)
	overlay(&t.CommonWriteOffsets, st.CommonWriteOffsets)
	overlay(&t.OtherWriteOffsets, st.OtherWriteOffsets)

	s, ss := &r.SizeAndChecksums, seed.SizeAndChecksums
	overlayInt(&s.Size, ss.Size)
	overlay(&s.CRC32, ss.CRC32)
	overlay(&s.MD5, ss.MD5)
	overlay(&s.SHA1, ss.SHA1)
	overlayInt(&s.Layerbreak, ss.Layerbreak)
	overlayInt(&s.Layerbreak2, ss.Layerbreak2)
	overlayInt(&s.Layerbreak3, ss.Layerbreak3)
	overlay(&s.PICIdentifier, ss.PICIdentifier)

	di, sdi := &r.DumpingInfo, seed.DumpingInfo
	overlay(&di.FrontendVersion, sdi.FrontendVersion)
	overlay(&di.DumpingProgram, sdi.DumpingProgram)
	overlay(&di.DumpingDate, sdi.DumpingDate)
	overlay(&di.DumpingParameters, sdi.DumpingParameters)
	overlay(&di.Manufacturer, sdi.Manufacturer)
	overlay(&di.Model, sdi.Model)
	overlay(&di.Firmware, sdi.Firmware)
	overlay(&di.ReportedDiscType, sdi.ReportedDiscType)
	overlay(&di.C2ErrorsCount, sdi.C2ErrorsCount)
}

func applyCommon(c, sc *CommonDiscInfo) {
	overlay(&c.Title, sc.Title)
	overlay(&c.ForeignTitleNonLatin, sc.ForeignTitleNonLatin)
	overlay(&c.DiscNumberLetter, sc.DiscNumberLetter)
	overlay(&c.DiscTitle, sc.DiscTitle)
	if sc.Category != CategoryUnknown {
		c.Category = sc.Category
	}
	if sc.Region != RegionUnknown {
		c.Region = sc.Region
	}
	if len(sc.Languages) > 0 {
		c.Languages = slices.Clone(sc.Languages)
	}
	if len(sc.LanguageSelection) > 0 {
		c.LanguageSelection = slices.Clone(sc.LanguageSelection)
	}
	overlay(&c.Serial, sc.Serial)
	overlay(&c.Barcode, sc.Barcode)
	overlay(&c.RingWriteOffset, sc.RingWriteOffset)
	overlay(&c.EXEDateBuildDate, sc.EXEDateBuildDate)
	overlay(&c.ErrorsCount, sc.ErrorsCount)
	overlay(&c.Comments, sc.Comments)
	overlay(&c.Contents, sc.Contents)

	if len(sc.Layers) > 0 {
		layers := c.EnsureLayers(len(sc.Layers))
		for i, src := range sc.Layers {
			dst := &layers[i]
			overlay(&dst.MasteringRing, src.MasteringRing)
			overlay(&dst.MasteringSID, src.MasteringSID)
			overlay(&dst.ToolstampMasteringCode, src.ToolstampMasteringCode)
			overlay(&dst.MouldSID, src.MouldSID)
			overlay(&dst.AdditionalMould, src.AdditionalMould)
		}
	}

	c.CommentsSpecialFields = mergeTags(c.CommentsSpecialFields, sc.CommentsSpecialFields)
	c.ContentsSpecialFields = mergeTags(c.ContentsSpecialFields, sc.ContentsSpecialFields)
}

func overlay(dst *string, src string) {
	if IsUnset(src) {
		return
	}
	*dst = src
}

func overlayInt(dst *int64, src int64) {
	if src != 0 {
		*dst = src
	}
}

func mergeTags[K comparable](dst, src map[K]string) map[K]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[K]string, len(src))
	}
	for k, v := range src {
		if IsUnset(v) {
			continue
		}
		dst[k] = v
	}
	return dst
}
