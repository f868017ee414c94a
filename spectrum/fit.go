package spectrum

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/optics/internal/cie"
	"github.com/gogpu/optics/internal/linalg"
)

// Fitting parameters. The Jacobian step is a central finite-difference
// half-width; the pivot tolerance is tight because the Jacobian is well
// conditioned for physically valid RGB triples.
const (
	fitEpsilon    = 1e-4
	fitPivotTol   = 1e-15
	fitResidual   = 1e-6
	fitCoeffLimit = 200.0

	// MaxFitIterations is the Gauss-Newton iteration budget.
	MaxFitIterations = 15
)

// ErrSingularJacobian reports that the fit's linearized system could not
// be solved. It should not occur for in-gamut RGB values.
var ErrSingularJacobian = errors.New("spectrum: singular Jacobian during fit")

// evalResidual integrates the sigmoid polynomial against the basis
// kernels and returns the difference to the target, both measured in
// L*a*b*.
func evalResidual(b *Basis, coeffs, rgb *[3]float64, residual *[3]float64) {
	var out [3]float64

	for i := 0; i < FineSamples; i++ {
		lambda := (b.Lambda[i] - cie.LambdaMin) / (cie.LambdaMax - cie.LambdaMin)

		// Horner evaluation of c[0]*l^2 + c[1]*l + c[2].
		x := 0.0
		for j := 0; j < 3; j++ {
			x = x*lambda + coeffs[j]
		}
		s := sigmoid(x)

		for j := 0; j < 3; j++ {
			out[j] += b.RGB[j][i] * s
		}
	}

	labOut := b.Lab(out)
	labTarget := b.Lab(*rgb)

	for j := 0; j < 3; j++ {
		residual[j] = labTarget[j] - labOut[j]
	}
}

// evalJacobian computes the residual's Jacobian with respect to the
// coefficients by central finite differences.
func evalJacobian(b *Basis, coeffs, rgb *[3]float64) [3][3]float64 {
	var r0, r1 [3]float64
	var jacobian [3][3]float64

	for i := 0; i < 3; i++ {
		tmp := *coeffs
		tmp[i] -= fitEpsilon
		evalResidual(b, &tmp, rgb, &r0)

		tmp = *coeffs
		tmp[i] += fitEpsilon
		evalResidual(b, &tmp, rgb, &r1)

		for j := 0; j < 3; j++ {
			jacobian[j][i] = (r1[j] - r0[j]) / (2 * fitEpsilon)
		}
	}

	return jacobian
}

// GaussNewton refines coeffs in place so that the sigmoid polynomial's
// integrated color matches rgb in L*a*b*. The initial coeffs value serves
// as the warm start; the table generator exploits this by chaining fits
// along the scale axis.
//
// The iteration stops after maxIter rounds or earlier once the squared
// residual drops below 1e-6. Running out of iterations is not an error:
// the best coefficients found so far are kept. The only failure mode is a
// singular Jacobian, reported as ErrSingularJacobian.
func GaussNewton(b *Basis, rgb [3]float64, coeffs *[3]float64, maxIter int) error {
	for i := 0; i < 3; i++ {
		if math.IsNaN(rgb[i]) {
			return fmt.Errorf("spectrum: NaN target component %d", i)
		}
	}

	for iter := 0; iter < maxIter; iter++ {
		var residual [3]float64
		evalResidual(b, coeffs, &rgb, &residual)
		jacobian := evalJacobian(b, coeffs, &rgb)

		var p [4]int
		if err := linalg.Decompose(&jacobian, &p, fitPivotTol); err != nil {
			return ErrSingularJacobian
		}

		delta := linalg.Solve(&jacobian, &p, &residual)

		r := 0.0
		for j := 0; j < 3; j++ {
			coeffs[j] -= delta[j]
			r += residual[j] * residual[j]
		}

		// Keep the sigmoid argument away from overflow: if any coefficient
		// escapes past 200, rescale all three uniformly.
		maxCoeff := math.Max(coeffs[0], math.Max(coeffs[1], coeffs[2]))
		if maxCoeff > fitCoeffLimit {
			scale := fitCoeffLimit / maxCoeff
			for j := 0; j < 3; j++ {
				coeffs[j] *= scale
			}
		}

		if r < fitResidual {
			break
		}
	}

	return nil
}
