package bandpal

import (
	"image"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// Lab is a CIE-Lab color with L in [0,100] and a, b roughly in [-128,127].
type Lab struct {
	L, A, B float64
}

// Dist2 returns the squared Euclidean distance between two Lab colors.
func (c Lab) Dist2(o Lab) float64 {
	dl := c.L - o.L
	da := c.A - o.A
	db := c.B - o.B
	return dl*dl + da*da + db*db
}

// RGBToLab converts a packed 0xRRGGBB color to Lab (sRGB, D65).
func RGBToLab(c uint32) Lab {
	col := colorful.Color{
		R: float64((c>>16)&0xff) / 255.0,
		G: float64((c>>8)&0xff) / 255.0,
		B: float64(c&0xff) / 255.0,
	}
	// go-colorful works on a 0..1 lightness scale.
	l, a, b := col.Lab()
	return Lab{L: l * 100, A: a * 100, B: b * 100}
}

// LabToRGB converts a Lab color back to packed 0xRRGGBB. Channels that fall
// outside the sRGB gamut are clamped.
func LabToRGB(v Lab) uint32 {
	r, g, b := colorful.Lab(v.L/100, v.A/100, v.B/100).Clamped().RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// RGBRaster is the 24-bit input image, one packed 0xRRGGBB value per pixel.
type RGBRaster struct {
	W, H int
	Pix  []uint32 // len = W*H, row-major
}

// RasterFromImage flattens any image into an RGBRaster, dropping alpha.
func RasterFromImage(img image.Image) RGBRaster {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	rgb := RGBRaster{W: w, H: h, Pix: make([]uint32, w*h)}
	for y := range h {
		for x := range w {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			rgb.Pix[y*w+x] = (r>>8)<<16 | (g>>8)<<8 | b>>8
		}
	}
	return rgb
}

// LabRaster holds one Lab triple per source pixel.
type LabRaster struct {
	W, H int
	Pix  []Lab
}

// Row returns the Lab pixels of row y.
func (r LabRaster) Row(y int) []Lab {
	return r.Pix[y*r.W : (y+1)*r.W]
}

func makeLabRaster(rgb RGBRaster) LabRaster {
	lab := LabRaster{W: rgb.W, H: rgb.H, Pix: make([]Lab, len(rgb.Pix))}
	// Dithered input reuses few colors, so memoize per packed value.
	cache := make(map[uint32]Lab)
	for i, c := range rgb.Pix {
		v, ok := cache[c]
		if !ok {
			v = RGBToLab(c)
			cache[c] = v
		}
		lab.Pix[i] = v
	}
	return lab
}

// defaultPalette is the fixed 32 color table used for pinned slots.
var defaultPalette = [32]uint32{
	0x000000, 0x1d2b53, 0x7e2553, 0x008751, 0xab5236, 0x5f574f, 0xc2c3c7, 0xfff1e8,
	0xff004d, 0xffa300, 0xffec27, 0x00e436, 0x29adff, 0x83769c, 0xff77a8, 0xffccaa,
	0x291814, 0x111d35, 0x422136, 0x125359, 0x742f29, 0x49333b, 0xa28879, 0xf3ef7d,
	0xbe1250, 0xff6c24, 0xa8e72e, 0x00b543, 0x065ab5, 0x754665, 0xff6e59, 0xff9d81,
}

// DefaultPaletteRGB returns a copy of the default palette.
func DefaultPaletteRGB() [32]uint32 {
	return defaultPalette
}

var defaultPaletteLab = sync.OnceValue(func() [32]Lab {
	var out [32]Lab
	for i, c := range defaultPalette {
		out[i] = RGBToLab(c)
	}
	return out
})

// pinnedColor returns the Lab value of pinned slot i. The table is cycled
// when more than 32 slots are pinned.
func pinnedColor(i int) Lab {
	return defaultPaletteLab()[i%len(defaultPalette)]
}
