package bandpal

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// BandAssignment maps every row index to its band id.
type BandAssignment []int

// Members returns the rows assigned to band b in ascending order.
func (a BandAssignment) Members(b int) []int {
	var rows []int
	for y, band := range a {
		if band == b {
			rows = append(rows, y)
		}
	}
	return rows
}

// HellingerMatrix returns the symmetric row-distance matrix of the given
// histograms. The distance is applied to raw counts:
//
//	sqrt(sum((sqrt(h1_i)-sqrt(h2_i))^2)) / sqrt(2)
//
// which is only a true Hellinger distance for normalized histograms. Output
// compatibility depends on keeping it that way.
func HellingerMatrix(hists []RowHistogram) *mat.SymDense {
	n := len(hists)
	if n == 0 {
		return nil
	}
	roots := make([][HistogramBins]float64, n)
	for y := range hists {
		for i, v := range hists[y] {
			roots[y][i] = math.Sqrt(v)
		}
	}
	d := mat.NewSymDense(n, nil)
	for i := range n {
		for j := i; j < n; j++ {
			d.SetSym(i, j, hellinger(&roots[i], &roots[j]))
		}
	}
	return d
}

func hellinger(r1, r2 *[HistogramBins]float64) float64 {
	sum := 0.0
	for i := range r1 {
		diff := r1[i] - r2[i]
		sum += diff * diff
	}
	return math.Sqrt(sum) / math.Sqrt2
}

// RowClusters is the result of k-medoids over a row-distance matrix.
type RowClusters struct {
	Bands      BandAssignment
	Medoids    []int // band -> medoid row, -1 when the band never had one
	Iterations int
	Converged  bool
}

// ClusterRows partitions the rows described by d into k bands with
// k-medoids. Ties always resolve to the lowest band or row index, so the
// result depends only on d. Hitting maxIter is not an error; the last
// assignment is returned with Converged unset.
func ClusterRows(d mat.Symmetric, k, maxIter int) RowClusters {
	n, _ := d.Dims()
	medoids := seedMedoids(d, k)
	res := RowClusters{Bands: assignRows(d, n, medoids)}
	buf := make([]float64, 0, n)
	for it := 1; it <= maxIter; it++ {
		res.Iterations = it
		next := updateMedoids(d, res.Bands, medoids, buf)
		if slices.Equal(next, medoids) {
			res.Converged = true
			break
		}
		medoids = next
		res.Bands = assignRows(d, n, medoids)
	}
	res.Medoids = medoids
	return res
}

// seedMedoids picks, k times, the unselected row with the largest total
// distance to the other unselected rows.
func seedMedoids(d mat.Symmetric, k int) []int {
	n, _ := d.Dims()
	medoids := make([]int, k)
	for i := range medoids {
		medoids[i] = -1
	}
	selected := make([]bool, n)
	buf := make([]float64, 0, n)
	for m := 0; m < k && m < n; m++ {
		best, bestSum := -1, -1.0
		for i := range n {
			if selected[i] {
				continue
			}
			buf = buf[:0]
			for j := range n {
				if j != i && !selected[j] {
					buf = append(buf, d.At(i, j))
				}
			}
			if sum := floats.Sum(buf); sum > bestSum {
				best, bestSum = i, sum
			}
		}
		selected[best] = true
		medoids[m] = best
	}
	return medoids
}

func assignRows(d mat.Symmetric, n int, medoids []int) BandAssignment {
	bands := make(BandAssignment, n)
	for y := range n {
		best, bestDist := 0, math.MaxFloat64
		for b, m := range medoids {
			if m < 0 {
				continue
			}
			if dist := d.At(y, m); dist < bestDist {
				best, bestDist = b, dist
			}
		}
		bands[y] = best
	}
	return bands
}

// updateMedoids recomputes the exact medoid of every band. A band without
// members keeps its previous medoid.
func updateMedoids(d mat.Symmetric, bands BandAssignment, prev []int, buf []float64) []int {
	next := slices.Clone(prev)
	for b := range prev {
		members := bands.Members(b)
		if len(members) == 0 {
			continue
		}
		best, bestSum := members[0], math.MaxFloat64
		for _, i := range members {
			buf = buf[:0]
			for _, j := range members {
				buf = append(buf, d.At(i, j))
			}
			if sum := floats.Sum(buf); sum < bestSum {
				best, bestSum = i, sum
			}
		}
		next[b] = best
	}
	return next
}
