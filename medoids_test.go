package bandpal

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// lineDistances places rows on a line and uses |xi-xj| as their distance.
func lineDistances(xs ...float64) *mat.SymDense {
	d := mat.NewSymDense(len(xs), nil)
	for i := range xs {
		for j := i; j < len(xs); j++ {
			d.SetSym(i, j, math.Abs(xs[i]-xs[j]))
		}
	}
	return d
}

func randomRaster(w, h int, seed uint64) RGBRaster {
	rng := rand.New(rand.NewPCG(seed, seed))
	r := RGBRaster{W: w, H: h, Pix: make([]uint32, w*h)}
	for i := range r.Pix {
		r.Pix[i] = rng.Uint32() & 0xffffff
	}
	return r
}

func TestHellingerMatrixSymmetricZeroDiagonal(t *testing.T) {
	t.Parallel()

	hists := RowHistograms(makeLabRaster(randomRaster(16, 12, 7)))
	d := HellingerMatrix(hists)
	n, _ := d.Dims()
	if n != 12 {
		t.Fatalf("matrix dim = %d, want 12", n)
	}
	for i := range n {
		if d.At(i, i) != 0 {
			t.Errorf("diagonal %d = %v", i, d.At(i, i))
		}
		for j := range n {
			if d.At(i, j) != d.At(j, i) {
				t.Errorf("asymmetric at (%d,%d)", i, j)
			}
			if d.At(i, j) < 0 {
				t.Errorf("negative distance at (%d,%d)", i, j)
			}
		}
	}
}

func TestHellingerUsesRawCounts(t *testing.T) {
	t.Parallel()

	var h1, h2 RowHistogram
	h1[0] = 4
	h2[0] = 1
	d := HellingerMatrix([]RowHistogram{h1, h2})
	want := 1 / math.Sqrt2
	if got := d.At(0, 1); math.Abs(got-want) > 1e-12 {
		t.Errorf("distance = %v, want %v", got, want)
	}
}

func TestClusterRowsLine(t *testing.T) {
	t.Parallel()

	d := lineDistances(0, 1, 10, 11, 20, 21, 30, 31)
	res := ClusterRows(d, 4, 100)

	if want := []int{0, 1, 2, 5}; !slices.Equal(res.Medoids, want) {
		t.Errorf("medoids = %v, want %v", res.Medoids, want)
	}
	if want := (BandAssignment{0, 1, 2, 2, 3, 3, 3, 3}); !slices.Equal(res.Bands, want) {
		t.Errorf("bands = %v, want %v", res.Bands, want)
	}
	if !res.Converged || res.Iterations != 2 {
		t.Errorf("converged=%v after %d iterations, want true after 2", res.Converged, res.Iterations)
	}
}

func TestClusterRowsIterationCap(t *testing.T) {
	t.Parallel()

	d := lineDistances(0, 1, 10, 11, 20, 21, 30, 31)
	res := ClusterRows(d, 4, 1)
	if res.Converged {
		t.Error("should not converge in a single iteration")
	}
	if res.Iterations != 1 {
		t.Errorf("iterations = %d, want 1", res.Iterations)
	}
	if want := (BandAssignment{0, 1, 2, 2, 3, 3, 3, 3}); !slices.Equal(res.Bands, want) {
		t.Errorf("bands = %v, want %v", res.Bands, want)
	}
}

func TestClusterRowsFewerRowsThanBands(t *testing.T) {
	t.Parallel()

	res := ClusterRows(lineDistances(0, 5), 4, 100)
	if want := []int{0, 1, -1, -1}; !slices.Equal(res.Medoids, want) {
		t.Errorf("medoids = %v, want %v", res.Medoids, want)
	}
	if want := (BandAssignment{0, 1}); !slices.Equal(res.Bands, want) {
		t.Errorf("bands = %v, want %v", res.Bands, want)
	}
}

func TestClusterRowsIdenticalRows(t *testing.T) {
	t.Parallel()

	res := ClusterRows(lineDistances(3, 3, 3, 3, 3), 4, 100)
	for y, b := range res.Bands {
		if b != 0 {
			t.Errorf("row %d in band %d, ties must go to band 0", y, b)
		}
	}
	// Bands 1-3 end up empty and keep their seeded medoids.
	if want := []int{0, 1, 2, 3}; !slices.Equal(res.Medoids, want) {
		t.Errorf("medoids = %v, want %v", res.Medoids, want)
	}
	if !res.Converged {
		t.Error("identical rows should converge")
	}
}

func TestClusterRowsDistinctRows(t *testing.T) {
	t.Parallel()

	rgb := RGBRaster{W: 2, H: 4, Pix: []uint32{
		0xff0000, 0xff0000,
		0x00ff00, 0x00ff00,
		0x0000ff, 0x0000ff,
		0xffffff, 0xffffff,
	}}
	res := ClusterRows(HellingerMatrix(RowHistograms(makeLabRaster(rgb))), 4, 100)
	seen := map[int]bool{}
	for _, b := range res.Bands {
		seen[b] = true
	}
	if len(seen) != 4 {
		t.Errorf("bands = %v, want every row in its own band", res.Bands)
	}
}
