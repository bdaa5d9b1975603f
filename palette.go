package bandpal

import (
	"math/rand/v2"

	"github.com/muesli/clusters"
)

// PaletteSize is the number of slots in every band palette.
const PaletteSize = 64

// Palette is an ordered list of Lab colors. The first pinned entries are
// copies of the default palette, the rest are learned from the image.
type Palette []Lab

// Nearest returns the index of the palette color closest to c. The lowest
// index wins on ties.
func (p Palette) Nearest(c Lab) int {
	best, bestDist := 0, -1.0
	for i, v := range p {
		if d := c.Dist2(v); bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// RGB converts the palette to packed 0xRRGGBB colors.
func (p Palette) RGB() []uint32 {
	out := make([]uint32, len(p))
	for i, c := range p {
		out[i] = LabToRGB(c)
	}
	return out
}

// UniqueColors collects the Lab colors of the given rows in raster order,
// skipping any color whose squared distance to an already collected one is
// below epsilon.
func UniqueColors(lab LabRaster, rows []int, epsilon float64) []Lab {
	var out []Lab
	seen := make(map[Lab]struct{})
	for _, y := range rows {
	pixels:
		for _, c := range lab.Row(y) {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			for _, u := range out {
				if c.Dist2(u) < epsilon {
					continue pixels
				}
			}
			out = append(out, c)
		}
	}
	return out
}

// BandPalette is the result of quantizing one band.
type BandPalette struct {
	Palette    Palette
	Colors     int // unique colors fed to k-means
	Iterations int
	Converged  bool
}

// QuantizeBand builds a PaletteSize palette for a band whose unique colors
// are given. Slots below pinned are fixed to the default palette and never
// updated. The free slots start from colors sampled with replacement from
// colors using rng and are refined by k-means until no centroid moves by a
// squared distance of epsilon or more, or maxIter is reached. A band with no
// colors keeps the default palette in every slot.
func QuantizeBand(colors []Lab, pinned int, epsilon float64, maxIter int, rng *rand.Rand) BandPalette {
	cs := make(clusters.Clusters, PaletteSize)
	for i := range cs {
		c := pinnedColor(i)
		if i >= pinned && len(colors) > 0 {
			c = colors[rng.IntN(len(colors))]
		}
		cs[i].Center = toCoordinates(c)
	}
	res := BandPalette{Colors: len(colors)}
	if len(colors) == 0 || pinned >= PaletteSize {
		res.Palette = centers(cs)
		res.Converged = true
		return res
	}

	obs := make(clusters.Observations, len(colors))
	for i, c := range colors {
		obs[i] = toCoordinates(c)
	}
	prev := make([]clusters.Coordinates, PaletteSize)
	for it := 1; it <= maxIter; it++ {
		res.Iterations = it
		for i := range cs {
			prev[i] = cs[i].Center
			cs[i].Observations = cs[i].Observations[:0]
		}
		for _, o := range obs {
			ci := cs.Nearest(o)
			cs[ci].Observations = append(cs[ci].Observations, o)
		}
		moved := false
		for i := pinned; i < len(cs); i++ {
			center, err := cs[i].Observations.Center()
			if err != nil {
				// empty cluster: keep the centroid where it is
				continue
			}
			cs[i].Center = center
			if center.Distance(prev[i]) >= epsilon {
				moved = true
			}
		}
		if !moved {
			res.Converged = true
			break
		}
	}
	res.Palette = centers(cs)
	return res
}

func toCoordinates(c Lab) clusters.Coordinates {
	return clusters.Coordinates{c.L, c.A, c.B}
}

func centers(cs clusters.Clusters) Palette {
	p := make(Palette, len(cs))
	for i, c := range cs {
		p[i] = Lab{L: c.Center[0], A: c.Center[1], B: c.Center[2]}
	}
	return p
}
