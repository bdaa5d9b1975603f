package bandpal

import "slices"

// UnifyPalettes merges near-identical free colors across all palettes so
// neighbouring bands do not show the same color under different values.
//
// Free slots (index >= pinned) are visited band-major, then by slot. For
// every forward pair closer than 4*epsilon (squared Lab distance) the later
// slot takes the earlier slot's color. The pass is single and order
// dependent. The input palettes are left untouched.
func UnifyPalettes(palettes []Palette, pinned int, epsilon float64) []Palette {
	out := make([]Palette, len(palettes))
	for b, p := range palettes {
		out[b] = slices.Clone(p)
	}
	type slot struct{ band, index int }
	var free []slot
	for b, p := range out {
		for i := pinned; i < len(p); i++ {
			free = append(free, slot{b, i})
		}
	}
	threshold := 4 * epsilon
	for i, s := range free {
		c := out[s.band][s.index]
		for _, t := range free[i+1:] {
			if c.Dist2(out[t.band][t.index]) < threshold {
				out[t.band][t.index] = c
			}
		}
	}
	return out
}
