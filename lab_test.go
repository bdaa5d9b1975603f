package bandpal

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestRGBLabRoundTrip(t *testing.T) {
	t.Parallel()

	step := uint32(1)
	if testing.Short() {
		step = 97
	}
	for c := uint32(0); c < 1<<24; c += step {
		if got := LabToRGB(RGBToLab(c)); got != c {
			t.Fatalf("round trip of %06x gave %06x", c, got)
		}
	}
}

func TestRGBToLabReferencePoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rgb  uint32
		want Lab
	}{
		{"black", 0x000000, Lab{0, 0, 0}},
		{"white", 0xffffff, Lab{100, 0, 0}},
		{"red", 0xff0000, Lab{53.24, 80.09, 67.20}},
		{"blue", 0x0000ff, Lab{32.30, 79.19, -107.86}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToLab(tt.rgb)
			if math.Abs(got.L-tt.want.L) > 0.05 ||
				math.Abs(got.A-tt.want.A) > 0.05 ||
				math.Abs(got.B-tt.want.B) > 0.05 {
				t.Errorf("RGBToLab(%06x) = %+v, want about %+v", tt.rgb, got, tt.want)
			}
		})
	}
}

func TestLabToRGBClampsOutOfGamut(t *testing.T) {
	t.Parallel()

	if got := LabToRGB(Lab{L: 150, A: 0, B: 0}); got != 0xffffff {
		t.Errorf("over-bright Lab gave %06x, want ffffff", got)
	}
	if got := LabToRGB(Lab{L: -20, A: 0, B: 0}); got != 0x000000 {
		t.Errorf("negative lightness gave %06x, want 000000", got)
	}
	// Far outside sRGB: each channel must still be a byte.
	got := LabToRGB(Lab{L: 50, A: 127, B: -128})
	if got > 0xffffff {
		t.Errorf("out of gamut color overflowed: %x", got)
	}
}

func TestRasterFromImage(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(10, 20, 13, 22))
	img.Set(10, 20, color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 255})
	img.Set(12, 21, color.NRGBA{R: 0xff, G: 0x00, B: 0x80, A: 255})

	r := RasterFromImage(img)
	if r.W != 3 || r.H != 2 || len(r.Pix) != 6 {
		t.Fatalf("unexpected raster size %dx%d (%d pixels)", r.W, r.H, len(r.Pix))
	}
	if r.Pix[0] != 0x123456 {
		t.Errorf("first pixel = %06x, want 123456", r.Pix[0])
	}
	if r.Pix[5] != 0xff0080 {
		t.Errorf("last pixel = %06x, want ff0080", r.Pix[5])
	}
}

func TestDefaultPaletteIsCopied(t *testing.T) {
	t.Parallel()

	p := DefaultPaletteRGB()
	p[0] = 0xffffff
	if DefaultPaletteRGB()[0] != 0x000000 {
		t.Fatal("default palette was modified through a returned copy")
	}
}

func TestPinnedColorCycles(t *testing.T) {
	t.Parallel()

	for i := range PaletteSize {
		want := RGBToLab(defaultPalette[i%32])
		if got := pinnedColor(i); got != want {
			t.Errorf("pinned slot %d = %+v, want %+v", i, got, want)
		}
	}
}
