// Package linalg provides a small dense linear solver based on LU
// decomposition with partial pivoting. It has no dependency on the
// spectral domain; the fitter uses it for 3x3 Jacobian systems.
package linalg

import (
	"errors"
	"math"
)

// ErrSingular is returned by Decompose when the largest pivot magnitude
// in some column falls below the tolerance.
var ErrSingular = errors.New("linalg: matrix is singular to working tolerance")

// N is the system size. The fitter only ever solves 3x3 systems.
const N = 3

// Decompose factors a in place into L and U such that L*U = P*a, using
// partial pivoting. p receives the row permutation; p[N] counts the number
// of row swaps performed (useful for determinant sign, kept for parity
// with the textbook formulation).
func Decompose(a *[N][N]float64, p *[N + 1]int, tol float64) error {
	for i := 0; i <= N; i++ {
		p[i] = i
	}

	for i := 0; i < N; i++ {
		maxA := 0.0
		maxI := i

		for k := i; k < N; k++ {
			if absA := math.Abs(a[k][i]); absA > maxA {
				maxA = absA
				maxI = k
			}
		}

		if maxA < tol {
			return ErrSingular
		}

		if maxI != i {
			p[i], p[maxI] = p[maxI], p[i]
			a[i], a[maxI] = a[maxI], a[i]
			p[N]++
		}

		for j := i + 1; j < N; j++ {
			a[j][i] /= a[i][i]

			for k := i + 1; k < N; k++ {
				a[j][k] -= a[j][i] * a[i][k]
			}
		}
	}

	return nil
}

// Solve performs forward and back substitution against the decomposed
// matrix and permuted right-hand side b, returning the solution vector.
func Solve(a *[N][N]float64, p *[N + 1]int, b *[N]float64) [N]float64 {
	var x [N]float64

	for i := 0; i < N; i++ {
		x[i] = b[p[i]]

		for k := 0; k < i; k++ {
			x[i] -= a[i][k] * x[k]
		}
	}

	for i := N - 1; i >= 0; i-- {
		for k := i + 1; k < N; k++ {
			x[i] -= a[i][k] * x[k]
		}

		x[i] /= a[i][i]
	}

	return x
}
