package submission

// MasteringLayerCount is the number of physical data layers implied by the
// set layerbreaks: one more than the layerbreak count.
func MasteringLayerCount(sizes SizeAndChecksums) int {
	return 1 + sizes.LayerbreakCount()
}

// LayerGroupCount returns how many mastering groups a record of this media
// carries. Single-layer optical media other than CD/GD keep a second group
// for the label side moulds, so they never drop below two.
func LayerGroupCount(media MediaType, sizes SizeAndChecksums) int {
	switch {
	case media.IsCDFamily():
		return 1
	case media == MediaUMD:
		return 2
	case media.IsLayered():
		return max(2, MasteringLayerCount(sizes))
	}
	return 0
}

// EnsureLayers grows the mastering group slice to at least n entries and
// returns it for in-place edits. Existing groups are kept.
func (c *CommonDiscInfo) EnsureLayers(n int) []LayerMastering {
	for len(c.Layers) < n {
		c.Layers = append(c.Layers, LayerMastering{})
	}
	return c.Layers
}

// Layer returns mastering group i, or the zero group when absent.
func (c *CommonDiscInfo) Layer(i int) LayerMastering {
	if i < 0 || i >= len(c.Layers) {
		return LayerMastering{}
	}
	return c.Layers[i]
}
