package utils

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/setanarut/bandpal"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParsePaletteMethod accepts the names returned by PaletteMethod.String.
func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch s {
	case "kmeans":
		return PaletteMethodKMeans, nil
	case "dominantcolor", "dominant":
		return PaletteMethodDominantColor, nil
	}
	return 0, fmt.Errorf("unknown palette method %q", s)
}

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

// BandImage stacks the given source rows into a new image, in order. It
// gives the preview extractors a view of a single band.
func BandImage(raster bandpal.RGBRaster, rows []int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, raster.W, len(rows)))
	for dy, y := range rows {
		for x := range raster.W {
			c := raster.Pix[y*raster.W+x]
			img.SetRGBA(x, dy, color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255})
		}
	}
	return img
}

// SortPaletteByBrightness orders colors from darkest to brightest.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		ri, gi, bi := a.LinearRgb()
		rj, gj, bj := b.LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		if yi < yj {
			return -1
		}
		if yi > yj {
			return 1
		}
		return 0
	})
}

// ExtractDominantPalette returns up to k weighted, well separated colors
// found by dominantcolor.
func ExtractDominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 || img.Bounds().Empty() {
		return nil
	}
	candidates := dominantcolor.FindWeight(img, max(8, k*4))
	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		weighted = append(weighted, weightedColor{Col: col.Clamped(), Weight: max(c.Weight, 1e-6)})
	}
	return SelectDiverseWeightedColors(weighted, k)
}

// SelectDiverseWeightedColors picks the heaviest color first, then keeps
// adding the candidate that maximizes Lab distance to the picks, scaled by
// its weight.
func SelectDiverseWeightedColors(cands []weightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	k = min(k, len(cands))
	maxW := 0.0
	for _, c := range cands {
		maxW = max(maxW, c.Weight)
	}
	if maxW <= 0 {
		maxW = 1
	}

	picked := make([]int, 0, k)
	used := make([]bool, len(cands))
	seed := 0
	for i := 1; i < len(cands); i++ {
		if cands[i].Weight > cands[seed].Weight {
			seed = i
		}
	}
	picked = append(picked, seed)
	used[seed] = true

	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i, c := range cands {
			if used[i] {
				continue
			}
			minD := math.MaxFloat64
			for _, p := range picked {
				minD = min(minD, c.Col.DistanceLab(cands[p].Col))
			}
			score := minD * (0.55 + 0.45*math.Sqrt(c.Weight/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		used[best] = true
		picked = append(picked, best)
	}

	out := make([]colorful.Color, len(picked))
	for i, p := range picked {
		out[i] = cands[p].Col
	}
	return out
}

// ExtractKMeansPalette clusters a subsample of img in RGB with muesli/kmeans
// and reduces the cluster centers to k diverse colors.
func ExtractKMeansPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	const maxSamples = 12000
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/maxSamples)) + 1
	}
	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, _ := img.At(x, y).RGBA()
			dataset = append(dataset, clusters.Coordinates{
				float64(r) / 0xffff,
				float64(g) / 0xffff,
				float64(bl) / 0xffff,
			})
		}
	}

	workK := min(k*4, len(dataset))
	cc, err := kmeans.New().Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		return nil
	}
	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, weightedColor{Col: col, Weight: float64(len(c.Observations))})
	}
	return SelectDiverseWeightedColors(weighted, k)
}

// ExtractPalette runs the chosen method, falling back to dominantcolor when
// k-means finds nothing.
func ExtractPalette(img image.Image, k int, method PaletteMethod) []colorful.Color {
	if method == PaletteMethodKMeans {
		if p := ExtractKMeansPalette(img, k); len(p) != 0 {
			return p
		}
	}
	return ExtractDominantPalette(img, k)
}

// HexColors formats colors as #rrggbb strings.
func HexColors(palette []colorful.Color) []string {
	out := make([]string, len(palette))
	for i, c := range palette {
		out[i] = c.Hex()
	}
	return out
}
