package formatter

import (
	"fmt"

	"discsub/internal/submission"
)

type layerTemplate struct {
	label string
	group int
}

// ringTemplates picks the group labels for a record. Single-layer media use
// Data Side and Label Side; layered media use one "Layer N" entry per data
// layer, with the inner/outer designation reversed for systems whose ring
// codes are mirrored.
func ringTemplates(rec *submission.Record) []layerTemplate {
	info := rec.CommonDiscInfo
	layerbreaks := rec.SizeAndChecksums.LayerbreakCount()
	groups := len(info.Layers)

	if layerbreaks == 0 {
		out := []layerTemplate{{label: "Data Side", group: 0}}
		if groups > 1 {
			out = append(out, layerTemplate{label: "Label Side", group: 1})
		}
		return out
	}

	count := layerbreaks + 1
	reversed := info.System.HasReversedRingcodes()
	out := make([]layerTemplate, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, layerTemplate{label: layerLabel(i, count, reversed), group: i})
	}
	return out
}

func layerLabel(layer, count int, reversed bool) string {
	inner, outer := " (Inner)", " (Outer)"
	if reversed {
		inner, outer = outer, inner
	}
	switch layer {
	case 0:
		return fmt.Sprintf("Layer %d%s", layer, inner)
	case count - 1:
		return fmt.Sprintf("Layer %d%s", layer, outer)
	}
	return fmt.Sprintf("Layer %d", layer)
}

func (w *lineWriter) rings(rec *submission.Record) {
	if len(rec.CommonDiscInfo.Layers) == 0 {
		return
	}
	w.line("\tRingcode Information:")
	w.blank()
	for _, tmpl := range ringTemplates(rec) {
		layer := rec.CommonDiscInfo.Layer(tmpl.group)
		if layer.IsZero() {
			continue
		}
		w.line("\t\t" + tmpl.label + ":")
		w.field(3, "Mastering Code (laser branded/etched)", layer.MasteringRing, false, false)
		w.field(3, "Mastering SID Code", layer.MasteringSID, false, false)
		w.field(3, "Toolstamp or Mastering Code (engraved/stamped)", layer.ToolstampMasteringCode, false, false)
		w.field(3, "Mould SID Code", layer.MouldSID, false, false)
		w.field(3, "Additional Mould", layer.AdditionalMould, false, false)
	}
	w.blank()
}
