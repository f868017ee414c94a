package spectrum

import (
	"math"
	"sync"
	"testing"
)

var (
	testTableOnce sync.Once
	testTable     *Table
)

// testSRGBTable builds one small sRGB table shared across tests. Resolution
// 8 keeps the fit count low while exercising both sweep directions.
func testSRGBTable(t *testing.T) *Table {
	t.Helper()
	testTableOnce.Do(func() {
		tbl, err := GenerateTable(GamutSRGB, 8)
		if err != nil {
			t.Fatalf("GenerateTable: %v", err)
		}
		testTable = tbl
	})
	return testTable
}

func TestGenerateTableInvalidResolution(t *testing.T) {
	for _, res := range []int{-1, 0, 1} {
		if _, err := GenerateTable(GamutSRGB, res); err == nil {
			t.Errorf("GenerateTable(res=%d) should fail", res)
		}
	}
}

func TestTableScaleAxis(t *testing.T) {
	tbl := testSRGBTable(t)

	if tbl.ZNodes[0] != 0 {
		t.Errorf("ZNodes[0] = %g, want 0", tbl.ZNodes[0])
	}
	if tbl.ZNodes[tbl.Res-1] != 1 {
		t.Errorf("ZNodes[last] = %g, want 1", tbl.ZNodes[tbl.Res-1])
	}
	for k := 1; k < tbl.Res; k++ {
		if tbl.ZNodes[k] <= tbl.ZNodes[k-1] {
			t.Fatalf("scale axis not strictly increasing at %d: %g <= %g",
				k, tbl.ZNodes[k], tbl.ZNodes[k-1])
		}
	}
}

// TestLookupNodeExact feeds single-channel colors that land exactly on a
// grid node. The minor coordinates are exactly zero and the scale coordinate
// hits a node, so every interpolation weight is exactly 0 or 1 and the
// lookup must return the stored coefficients bit for bit.
func TestLookupNodeExact(t *testing.T) {
	tbl := testSRGBTable(t)
	res := tbl.Res

	cases := []struct {
		name string
		l    int // dominant channel and cube index
		k    int // scale node, >= 1 so a cell below it exists
	}{
		{"red low", 0, 1},
		{"red mid", 0, 5},
		{"red top", 0, res - 1},
		{"green mid", 1, 5},
		{"blue mid", 2, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var rgb [3]float32
			rgb[tc.l] = tbl.ZNodes[tc.k]

			got, err := tbl.Lookup(rgb)
			if err != nil {
				t.Fatal(err)
			}

			idx := ((tc.l*res + tc.k) * res) * res
			want := SigmoidPolynomial{
				C2: tbl.Coefficients[3*idx],
				C1: tbl.Coefficients[3*idx+1],
				C0: tbl.Coefficients[3*idx+2],
			}
			if got != want {
				t.Errorf("Lookup(%v) = %+v, want stored %+v", rgb, got, want)
			}
		})
	}
}

// TestLookupClampsOutOfRange feeds components outside [0, 1], as produced
// by out-of-gamut XYZ conversions, and checks they resolve to the nearest
// in-range color instead of indexing outside the grid.
func TestLookupClampsOutOfRange(t *testing.T) {
	tbl := testSRGBTable(t)

	cases := []struct {
		name     string
		in, want [3]float32
	}{
		{"negative minor", [3]float32{0.05, -0.2, 0}, [3]float32{0.05, 0, 0}},
		{"negative mixed", [3]float32{0.5, -0.2, 0.1}, [3]float32{0.5, 0, 0.1}},
		{"above one", [3]float32{1.5, 0.2, 0.1}, [3]float32{1, 0.2, 0.1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tbl.Lookup(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			want, err := tbl.Lookup(tc.want)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("Lookup(%v) = %+v, want %+v", tc.in, got, want)
			}
		})
	}

	// An all-negative color clamps to black and reflects nothing.
	p, err := tbl.Lookup([3]float32{-1, -0.5, -2})
	if err != nil {
		t.Fatal(err)
	}
	if v := p.Value(550); v != 0 {
		t.Errorf("all-negative input reflects %g, want 0", v)
	}
}

// TestLookupRedDominant checks that a red-dominant color yields a spectrum
// with more energy in the long wavelengths than in the short ones.
func TestLookupRedDominant(t *testing.T) {
	tbl := testSRGBTable(t)

	p, err := tbl.Lookup([3]float32{0.8, 0.2, 0.1})
	if err != nil {
		t.Fatal(err)
	}
	long, short := p.Value(650), p.Value(450)
	t.Logf("reflectance at 650nm: %g, at 450nm: %g", long, short)
	if long <= short {
		t.Errorf("red-dominant spectrum inverted: %g at 650nm vs %g at 450nm", long, short)
	}
}

// TestLookupAchromatic checks the closed-form constant spectrum: sigmoid of
// the solved offset reproduces the gray level exactly.
func TestLookupAchromatic(t *testing.T) {
	tbl := testSRGBTable(t)

	for _, r := range []float32{0.1, 0.3, 0.5, 0.7, 0.9} {
		p, err := tbl.Lookup([3]float32{r, r, r})
		if err != nil {
			t.Fatal(err)
		}
		if p.C2 != 0 || p.C1 != 0 {
			t.Errorf("gray %g: expected constant polynomial, got %+v", r, p)
		}
		for _, lambda := range []float32{380, 550, 800} {
			if v := p.Value(lambda); math.Abs(float64(v-r)) > 1e-4 {
				t.Errorf("gray %g at %gnm: got %g", r, lambda, v)
			}
		}
	}
}

func TestLookupNaN(t *testing.T) {
	tbl := testSRGBTable(t)
	if _, err := tbl.Lookup([3]float32{float32(math.NaN()), 0.5, 0.5}); err == nil {
		t.Error("expected error for NaN component")
	}
}

// TestLookupBounded samples looked-up polynomials across the visible range
// and checks the sigmoid keeps every reflectance inside [0, 1].
func TestLookupBounded(t *testing.T) {
	tbl := testSRGBTable(t)

	colors := [][3]float32{
		{0.9, 0.1, 0.1}, {0.1, 0.9, 0.1}, {0.1, 0.1, 0.9},
		{0.8, 0.6, 0.2}, {0.3, 0.3, 0.7}, {0.05, 0.02, 0.01},
	}
	for _, rgb := range colors {
		p, err := tbl.Lookup(rgb)
		if err != nil {
			t.Fatal(err)
		}
		for lambda := float32(360); lambda <= 830; lambda += 5 {
			v := p.Value(lambda)
			if v < 0 || v > 1 || math.IsNaN(float64(v)) {
				t.Fatalf("rgb %v at %gnm: reflectance %g out of range", rgb, lambda, v)
			}
		}
	}
}

func TestFindInterval(t *testing.T) {
	nodes := []float32{0, 0.1, 0.3, 0.6, 1}
	pred := func(z float32) func(int) bool {
		return func(i int) bool { return nodes[i] < z }
	}

	tests := []struct {
		z    float32
		want int
	}{
		{-1, 0}, // below range clamps to the first interval
		{0, 0},
		{0.05, 0},
		{0.2, 1},
		{0.45, 2},
		{0.99, 3},
		{2, 3}, // above range clamps to the last interval
	}
	for _, tt := range tests {
		if got := FindInterval(len(nodes), pred(tt.z)); got != tt.want {
			t.Errorf("FindInterval(z=%g) = %d, want %d", tt.z, got, tt.want)
		}
	}

	if got := FindInterval(1, func(int) bool { return true }); got != 0 {
		t.Errorf("degenerate size: got %d, want 0", got)
	}
}
