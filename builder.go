package bandpal

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

const (
	// NumBands is the fixed number of palettes per image.
	NumBands = 4
	// FormatVersion tags every Output.
	FormatVersion = 1
	// DefaultMaxIterations caps both k-medoids and k-means.
	DefaultMaxIterations = 100
)

type Options struct {
	// Free colors learned per band, 0-64. The first 64-ColorBudget slots of
	// every palette are pinned to the default palette.
	// 0 => output uses only default colors.
	ColorBudget int
	// Squared Lab distance below which two colors are the same color. Also
	// the k-means convergence threshold; unification uses 4*Epsilon.
	// Ideal start: 1e-4.
	Epsilon float64
	// Iteration cap for the two clustering loops. <= 0 => DefaultMaxIterations.
	MaxIterations int
	// Seed for free centroid sampling, used when Rand is nil.
	Seed uint64
	// Rand overrides the sampling source.
	Rand *rand.Rand
	// Progress, if set, receives an event per stage.
	Progress ProgressFunc
}

func DefaultOptions() Options {
	return Options{
		ColorBudget:   32,
		Epsilon:       1e-4,
		MaxIterations: DefaultMaxIterations,
		Seed:          1,
	}
}

// OptionsFromSize lowers the color budget for images with fewer pixels
// than the default budget.
func OptionsFromSize(size image.Point) Options {
	opt := DefaultOptions()
	if size.X <= 0 || size.Y <= 0 {
		return opt
	}
	opt.ColorBudget = max(1, min(opt.ColorBudget, size.X*size.Y))
	return opt
}

// Pinned returns the number of pinned slots per palette.
func (o Options) Pinned() int {
	return PaletteSize - o.ColorBudget
}

// Validate reports parameter errors before any work is done.
func (o Options) Validate() error {
	if o.ColorBudget < 0 || o.ColorBudget > PaletteSize {
		return fmt.Errorf("%w: %d not in [0,%d]", ErrInvalidBudget, o.ColorBudget, PaletteSize)
	}
	if !(o.Epsilon > 0) || math.IsInf(o.Epsilon, 1) {
		return fmt.Errorf("%w: %v", ErrInvalidEpsilon, o.Epsilon)
	}
	return nil
}

func (o Options) iterations() int {
	if o.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return o.MaxIterations
}

func (o Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15))
}

// Converter keeps every intermediate artifact of a conversion so the
// stages can be inspected after Build.
type Converter struct {
	Rgb          RGBRaster
	Lab          LabRaster
	Histograms   []RowHistogram
	Distances    *mat.SymDense
	Rows         RowClusters
	BandPalettes []BandPalette
	Palettes     []Palette // unified, one per band
	Indexed      IndexedRaster
	Map          ScanlineBandMap
}

func NewConverter(input RGBRaster) *Converter {
	return &Converter{Rgb: input}
}

// Build runs the full pipeline. On error the converter holds no usable
// output.
func (cv *Converter) Build(opt Options) error {
	if err := opt.Validate(); err != nil {
		return err
	}
	if err := cv.Rgb.validate(); err != nil {
		return err
	}
	maxIter := opt.iterations()
	pinned := opt.Pinned()

	cv.Lab = makeLabRaster(cv.Rgb)
	opt.report(Event{Stage: StageLab, Band: -1, Rows: cv.Lab.H})

	cv.Histograms = RowHistograms(cv.Lab)
	opt.report(Event{Stage: StageHistograms, Band: -1, Rows: len(cv.Histograms)})

	cv.Distances = HellingerMatrix(cv.Histograms)
	opt.report(Event{Stage: StageDistances, Band: -1, Rows: len(cv.Histograms)})

	cv.Rows = ClusterRows(cv.Distances, NumBands, maxIter)
	opt.report(Event{
		Stage:      StageBands,
		Band:       -1,
		Rows:       len(cv.Rows.Bands),
		Iterations: cv.Rows.Iterations,
		Converged:  cv.Rows.Converged,
	})

	rng := opt.rng()
	cv.BandPalettes = make([]BandPalette, NumBands)
	raw := make([]Palette, NumBands)
	for b := range NumBands {
		rows := cv.Rows.Bands.Members(b)
		colors := UniqueColors(cv.Lab, rows, opt.Epsilon)
		bp := QuantizeBand(colors, pinned, opt.Epsilon, maxIter, rng)
		cv.BandPalettes[b] = bp
		raw[b] = bp.Palette
		opt.report(Event{
			Stage:      StagePalette,
			Band:       b,
			Rows:       len(rows),
			Colors:     bp.Colors,
			Iterations: bp.Iterations,
			Converged:  bp.Converged,
		})
	}

	cv.Palettes = UnifyPalettes(raw, pinned, opt.Epsilon)
	opt.report(Event{Stage: StageUnify, Band: -1})

	cv.Indexed = BuildIndex(cv.Lab, cv.Rows.Bands, cv.Palettes)
	cv.Map = BandMap(cv.Rows.Bands)
	opt.report(Event{Stage: StageIndex, Band: -1, Rows: cv.Indexed.H})
	return nil
}

func (r RGBRaster) validate() error {
	if r.W <= 0 || r.H <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyImage, r.W, r.H)
	}
	if len(r.Pix) != r.W*r.H {
		return fmt.Errorf("%w: %d pixels for %dx%d", ErrRasterSize, len(r.Pix), r.W, r.H)
	}
	return nil
}

// OutputPalette is one band palette converted back to RGB.
type OutputPalette struct {
	ID     uint8
	Colors []uint32 // packed 0xRRGGBB
}

// Output is the finished conversion: four palettes, one palette index per
// pixel and the band of every scanline.
type Output struct {
	Version  int
	Width    int
	Height   int
	Palettes [NumBands]OutputPalette
	Bitmap   []uint8
	Map      ScanlineBandMap
}

// Output assembles the container from a built converter.
func (cv *Converter) Output() *Output {
	out := &Output{
		Version: FormatVersion,
		Width:   cv.Indexed.W,
		Height:  cv.Indexed.H,
		Bitmap:  cv.Indexed.Pix,
		Map:     cv.Map,
	}
	for b, p := range cv.Palettes {
		out.Palettes[b] = OutputPalette{ID: uint8(b), Colors: p.RGB()}
	}
	return out
}

// Convert runs the pipeline on raster and returns the output container.
func Convert(raster RGBRaster, opt Options) (*Output, error) {
	cv := NewConverter(raster)
	if err := cv.Build(opt); err != nil {
		return nil, err
	}
	return cv.Output(), nil
}

// ConvertImage is Convert for any image.Image.
func ConvertImage(img image.Image, opt Options) (*Output, error) {
	return Convert(RasterFromImage(img), opt)
}
