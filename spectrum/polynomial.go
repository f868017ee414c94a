package spectrum

import "math"

// sigmoid maps the polynomial value to (0, 1), guaranteeing physically
// valid reflectance. Defined for float64 fitting math.
func sigmoid(x float64) float64 {
	return 0.5*x/math.Sqrt(1+x*x) + 0.5
}

// SigmoidPolynomial is a parametric spectral curve
// sigmoid(C2*lambda^2 + C1*lambda + C0) with lambda in nm. The table
// generator emits coefficients already reparametrized to this physical
// wavelength domain. Values lie in [0, 1] for every wavelength.
type SigmoidPolynomial struct {
	C2, C1, C0 float32
}

// Value evaluates the reflectance at the wavelength lambda (in nm).
func (p SigmoidPolynomial) Value(lambda float32) float32 {
	x := fma(lambda, fma(lambda, p.C2, p.C1), p.C0)
	return sigmoid32(x)
}

// MaxValue returns the wavelength (nm) at which the polynomial peaks,
// clamped to the valid range. A degenerate polynomial (C2 == 0) has no
// vertex: an ascending line peaks at LambdaMax, everything else at
// LambdaMin.
func (p SigmoidPolynomial) MaxValue() float32 {
	if p.C2 == 0 {
		if p.C1 > 0 {
			return LambdaMax
		}
		return LambdaMin
	}
	v := -0.5 * p.C1 / p.C2
	if v < LambdaMin {
		return LambdaMin
	}
	if v > LambdaMax {
		return LambdaMax
	}
	return v
}

// Wavelength bounds of the visible range used throughout the renderer.
const (
	LambdaMin float32 = 360
	LambdaMax float32 = 830
)

func sigmoid32(x float32) float32 {
	if math.IsInf(float64(x), 0) {
		if x > 0 {
			return 1
		}
		return 0
	}
	return 0.5 * (1 + x/float32(math.Sqrt(float64(1+x*x))))
}

func fma(x, a, b float32) float32 {
	return float32(math.FMA(float64(x), float64(a), float64(b)))
}
