package container

import (
	"image"
	"image/color"

	"github.com/setanarut/bandpal"
)

// PackedMapLen is the number of bytes holding n packed scanlines.
func PackedMapLen(n int) int {
	return (n + 3) / 4
}

// PackMap stores each band id in 2 bits, four scanlines per byte, the first
// scanline in the two most significant bits.
func PackMap(m bandpal.ScanlineBandMap) []byte {
	out := make([]byte, PackedMapLen(len(m)))
	for y, band := range m {
		shift := 6 - 2*(y%4)
		out[y/4] |= (band & 3) << shift
	}
	return out
}

// UnpackMap reverses PackMap for n scanlines.
func UnpackMap(packed []byte, n int) bandpal.ScanlineBandMap {
	m := make(bandpal.ScanlineBandMap, n)
	for y := range m {
		shift := 6 - 2*(y%4)
		m[y] = (packed[y/4] >> shift) & 3
	}
	return m
}

// Render draws the container the way a display with one active palette
// per scanline would: every scanline looks up its pixels in the palette
// its map entry selects.
func Render(out *bandpal.Output) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, out.Width, out.Height))
	var table [bandpal.NumBands][]color.RGBA
	for b, p := range out.Palettes {
		table[b] = make([]color.RGBA, len(p.Colors))
		for i, c := range p.Colors {
			table[b][i] = color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
		}
	}
	for y := range out.Height {
		active := table[out.Map[y]]
		for x := range out.Width {
			img.SetRGBA(x, y, active[out.Bitmap[y*out.Width+x]])
		}
	}
	return img
}
