package spectrum

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/gogpu/optics"
	"github.com/gogpu/optics/internal/cie"
	"github.com/gogpu/optics/internal/parallel"
)

// TableRes is the production table resolution.
const TableRes = 64

// ErrInvalidResolution reports a table resolution outside the supported
// range. Generation requires at least 2 nodes per axis; decoding also
// enforces an upper bound on the header value.
var ErrInvalidResolution = errors.New("spectrum: invalid table resolution")

// Table is the precomputed RGB-to-spectrum lookup table for one gamut.
//
// Coefficients is a flattened [3][res][res][res][3] array indexed as
// [maxChannel][z][y][x][coef], where z runs along the non-uniform scale
// axis ZNodes. The table is built once and read-only afterwards.
type Table struct {
	Res          int
	ZNodes       []float32
	Coefficients []float32
}

// smoothStep is the cubic smoothstep 3x^2 - 2x^3 on [0, 1].
func smoothStep(x float64) float64 {
	return x * x * (3 - 2*x)
}

// Coefficient reparametrization from the fitter's normalized wavelength
// domain to physical nm, baked into the stored table entries.
const (
	c0Offset = cie.LambdaMin
	c1Scale  = 1 / (cie.LambdaMax - cie.LambdaMin)
)

// writeCell stores the reparametrized coefficients for one grid cell.
// The transform must match the runtime evaluator's nm-domain convention
// exactly, including sign and operation order.
func writeCell(out []float32, idx int, coeffs *[3]float64) {
	a, b, c := coeffs[0], coeffs[1], coeffs[2]
	out[3*idx] = float32(a * c1Scale * c1Scale)
	out[3*idx+1] = float32(b*c1Scale - 2*a*c0Offset*c1Scale*c1Scale)
	out[3*idx+2] = float32(c - b*c0Offset*c1Scale + a*c0Offset*c0Offset*c1Scale*c1Scale)
}

// GenerateTable builds the complete lookup table for a gamut at the given
// resolution (64 in production). The sweep over the res^3 x 3 sample grid
// is fanned out across a worker pool; every (channel, row) pair owns a
// disjoint slice of the output, so no synchronization is needed beyond
// the final join.
//
// Cells whose fit hits a singular Jacobian keep the previous cell's
// coefficients as a sentinel and are counted in a warning; the build
// itself never aborts on a per-cell basis.
func GenerateTable(gamut Gamut, res int) (*Table, error) {
	if res < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidResolution, res)
	}

	basis := NewBasis(gamut)

	// Double smoothstep concentrates z samples near 0 and 1, where the
	// table needs the most resolution.
	scale := make([]float32, res)
	for k := 0; k < res; k++ {
		t := float64(k) / float64(res-1)
		scale[k] = float32(smoothStep(smoothStep(t)))
	}

	out := make([]float32, 9*res*res*res)

	var failed atomic.Int64

	pool := parallel.NewWorkerPool(0)
	defer pool.Close()

	// Rows are independent across both the max-channel index and the y
	// coordinate; flatten the two loops into one parallel sweep.
	pool.For(3*res, func(lj int) {
		l := lj / res
		j := lj % res
		generateRow(basis, scale, out, res, l, j, &failed)
	})

	if n := failed.Load(); n > 0 {
		optics.Logger().Warn("spectrum: table cells kept sentinel coefficients",
			"gamut", gamut.String(), "cells", n)
	}

	return &Table{Res: res, ZNodes: scale, Coefficients: out}, nil
}

// generateRow fits every cell of one (maxChannel, y) row.
//
// The z sweep is split at res/5: the upper part walks forward reusing the
// previous cell's coefficients as warm start, the lower part walks
// backward restarting from zero. The split keeps poor initial guesses
// near z=0 (where the target RGB collapses toward black and the fit is
// ill conditioned) from destabilizing the rest of the row.
func generateRow(basis *Basis, scale []float32, out []float32, res, l, j int, failed *atomic.Int64) {
	y := float64(j) / float64(res-1)

	for i := 0; i < res; i++ {
		x := float64(i) / float64(res-1)
		start := res / 5

		var coeffs [3]float64
		for k := start; k < res; k++ {
			fitCell(basis, scale, out, res, l, i, j, k, x, y, &coeffs, failed)
		}

		coeffs = [3]float64{}
		for k := start - 1; k >= 0; k-- {
			fitCell(basis, scale, out, res, l, i, j, k, x, y, &coeffs, failed)
		}
	}
}

// fitCell runs one Gauss-Newton fit and stores the cell's coefficients.
// On a singular Jacobian the previous coefficients are kept as sentinel.
func fitCell(basis *Basis, scale []float32, out []float32, res, l, i, j, k int, x, y float64, coeffs *[3]float64, failed *atomic.Int64) {
	b := float64(scale[k])

	var rgb [3]float64
	rgb[l] = b
	rgb[(l+1)%3] = x * b
	rgb[(l+2)%3] = y * b

	if err := GaussNewton(basis, rgb, coeffs, MaxFitIterations); err != nil {
		failed.Add(1)
	}

	idx := ((l*res+k)*res+j)*res + i
	writeCell(out, idx, coeffs)
}

// Lookup recovers the sigmoid polynomial for an RGB color by trilinear
// interpolation into the table. Components are clamped to [0, 1], so
// out-of-gamut values from an XYZ conversion resolve to the nearest
// representable color; a NaN component is rejected. For achromatic inputs
// (r == g == b) the closed-form solution bypasses the table entirely.
func (t *Table) Lookup(rgb [3]float32) (SigmoidPolynomial, error) {
	for i, v := range rgb {
		if math.IsNaN(float64(v)) {
			return SigmoidPolynomial{}, fmt.Errorf("spectrum: NaN RGB component %d", i)
		}
		if v < 0 {
			rgb[i] = 0
		} else if v > 1 {
			rgb[i] = 1
		}
	}

	if rgb[0] == rgb[1] && rgb[1] == rgb[2] {
		r := float64(rgb[0])
		c0 := (r - 0.5) / math.Sqrt(r*(1-r))
		return SigmoidPolynomial{C2: 0, C1: 0, C0: float32(c0)}, nil
	}

	var maxIdx int
	if rgb[0] > rgb[1] {
		if rgb[0] > rgb[2] {
			maxIdx = 0
		} else {
			maxIdx = 2
		}
	} else {
		if rgb[1] > rgb[2] {
			maxIdx = 1
		} else {
			maxIdx = 2
		}
	}

	res := t.Res
	z := rgb[maxIdx]
	x := rgb[(maxIdx+1)%3] * float32(res-1) / z
	y := rgb[(maxIdx+2)%3] * float32(res-1) / z

	xi := min(int(x), res-2)
	yi := min(int(y), res-2)
	zi := FindInterval(res, func(i int) bool { return t.ZNodes[i] < z })

	dx := x - float32(xi)
	dy := y - float32(yi)
	dz := (z - t.ZNodes[zi]) / (t.ZNodes[zi+1] - t.ZNodes[zi])

	var c [3]float32
	for ci := 0; ci < 3; ci++ {
		co := func(ddx, ddy, ddz int) float32 {
			idx := ((maxIdx*res+zi+ddz)*res+yi+ddy)*res + xi + ddx
			return t.Coefficients[3*idx+ci]
		}

		c[ci] = lerp(dz,
			lerp(dy, lerp(dx, co(0, 0, 0), co(1, 0, 0)), lerp(dx, co(0, 1, 0), co(1, 1, 0))),
			lerp(dy, lerp(dx, co(0, 0, 1), co(1, 0, 1)), lerp(dx, co(0, 1, 1), co(1, 1, 1))))
	}

	return SigmoidPolynomial{C2: c[0], C1: c[1], C0: c[2]}, nil
}

func lerp(t, a, b float32) float32 {
	return a*(1-t) + b*t
}

// FindInterval locates, by binary search, the largest index i in
// [0, sz-2] such that pred(i) holds, assuming pred is monotonically
// true-then-false over the valid range. Results clamp to [0, sz-2] so the
// caller can always read index i+1.
func FindInterval(sz int, pred func(int) bool) int {
	if sz <= 1 {
		return 0
	}

	first, size := 1, sz-2

	for size > 0 {
		half := size >> 1
		mid := first + half
		if pred(mid) {
			first = mid + 1
			size -= half + 1
		} else {
			size = half
		}
	}

	result := first - 1
	if result > sz-2 {
		return sz - 2
	}
	if result < 0 {
		return 0
	}
	return result
}
