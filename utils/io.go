package utils

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ReadImage decodes png, jpeg, gif, bmp, tiff or webp, applying EXIF
// orientation.
func ReadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return img, nil
}

// ResizeToWidth scales img to width keeping the aspect ratio. Nearest
// neighbour sampling keeps dither patterns and introduces no new colors.
// A non-positive width returns img unchanged.
func ResizeToWidth(img image.Image, width int) image.Image {
	if width <= 0 || width == img.Bounds().Dx() {
		return img
	}
	return imaging.Resize(img, width, 0, imaging.NearestNeighbor)
}

// SaveImage encodes img in the format implied by the file extension.
func SaveImage(img image.Image, filename string) error {
	return imaging.Save(img, filename)
}

// SavePalette writes a horizontal strip of tileSize squares, one per packed
// 0xRRGGBB color.
func SavePalette(palette []uint32, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 16
	}
	img := image.NewRGBA(image.Rect(0, 0, tileSize*len(palette), tileSize))
	for i, c := range palette {
		col := color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
		for y := range tileSize {
			for x := i * tileSize; x < (i+1)*tileSize; x++ {
				img.SetRGBA(x, y, col)
			}
		}
	}
	return SaveImage(img, filename)
}

// SavePalettes writes one swatch strip per band into dir as
// palette_0N.png.
func SavePalettes(palettes [][]uint32, tileSize int, dir string) error {
	for i, p := range palettes {
		name := filepath.Join(dir, "palette_0"+strconv.Itoa(i)+".png")
		if err := SavePalette(p, tileSize, name); err != nil {
			return err
		}
	}
	return nil
}
