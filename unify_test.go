package bandpal

import (
	"slices"
	"testing"
)

func TestUnifyPalettes(t *testing.T) {
	t.Parallel()

	const pinned = 2
	eps := 1e-4
	a := Lab{40, 10, 10}
	nearA := Lab{40, 10, 10.01} // squared distance 1e-4 < 4e-4
	b := Lab{70, -5, 0}
	in := []Palette{
		{{0, 0, 0}, {1, 1, 1}, a, b},
		{{0, 0, 0}, {1, 1, 1.001}, nearA, {10, 10, 10}},
	}
	orig := []Palette{slices.Clone(in[0]), slices.Clone(in[1])}

	out := UnifyPalettes(in, pinned, eps)

	if out[1][2] != a {
		t.Errorf("near duplicate not unified: %+v", out[1][2])
	}
	if out[1][1] != (Lab{1, 1, 1.001}) {
		t.Errorf("pinned slot changed: %+v", out[1][1])
	}
	if out[0][3] != b || out[1][3] != (Lab{10, 10, 10}) {
		t.Error("distinct colors must be left alone")
	}
	for i := range in {
		if !slices.Equal(in[i], orig[i]) {
			t.Errorf("input palette %d was mutated", i)
		}
	}

	again := UnifyPalettes(out, pinned, eps)
	for i := range out {
		if !slices.Equal(again[i], out[i]) {
			t.Errorf("second pass changed palette %d", i)
		}
	}
}

func TestUnifyPalettesSameBandForwardOnly(t *testing.T) {
	t.Parallel()

	c0 := Lab{50, 0, 0}
	c1 := Lab{50, 0, 0.015} // 2.25e-4 from c0
	c2 := Lab{50, 0, 0.030} // 2.25e-4 from c1, 9e-4 from c0
	out := UnifyPalettes([]Palette{{c0, c1, c2}}, 0, 1e-4)

	// c1 takes c0; c2 is compared with the rewritten c1 and stays.
	want := Palette{c0, c0, c2}
	if !slices.Equal(out[0], want) {
		t.Errorf("got %v, want %v", out[0], want)
	}
}
