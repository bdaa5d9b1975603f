package bandpal

// IndexedRaster holds one palette index per pixel. Row y is looked up in
// the palette of the band selected for y.
type IndexedRaster struct {
	W, H int
	Pix  []uint8
}

// At returns the palette index of pixel (x, y).
func (r IndexedRaster) At(x, y int) uint8 {
	return r.Pix[y*r.W+x]
}

// ScanlineBandMap holds the band id of every row.
type ScanlineBandMap []uint8

// BuildIndex maps every pixel to the nearest color of its row's band
// palette.
func BuildIndex(lab LabRaster, bands BandAssignment, palettes []Palette) IndexedRaster {
	out := IndexedRaster{W: lab.W, H: lab.H, Pix: make([]uint8, len(lab.Pix))}
	for y := range lab.H {
		p := palettes[bands[y]]
		row := out.Pix[y*lab.W : (y+1)*lab.W]
		for x, c := range lab.Row(y) {
			row[x] = uint8(p.Nearest(c))
		}
	}
	return out
}

// BandMap converts a row assignment into a scanline map.
func BandMap(bands BandAssignment) ScanlineBandMap {
	m := make(ScanlineBandMap, len(bands))
	for y, b := range bands {
		m[y] = uint8(b)
	}
	return m
}
