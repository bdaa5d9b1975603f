package bandpal

import "math"

// HistogramBins is the length of a row feature vector: 256 bins per Lab channel.
const HistogramBins = 3 * 256

// RowHistogram holds raw per-channel bin counts of one row, L bins first,
// then a, then b.
type RowHistogram [HistogramBins]float64

func binL(l float64) int {
	return clampInt(int(math.Floor(l/100*255)), 0, 255)
}

func binAB(v float64) int {
	return clampInt(int(math.Floor((v+128)/255*255)), 0, 255)
}

// RowHistograms builds one histogram per row of the raster. Counts are not
// normalized.
func RowHistograms(lab LabRaster) []RowHistogram {
	hists := make([]RowHistogram, lab.H)
	for y := range lab.H {
		h := &hists[y]
		for _, p := range lab.Row(y) {
			h[binL(p.L)]++
			h[256+binAB(p.A)]++
			h[512+binAB(p.B)]++
		}
	}
	return hists
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
