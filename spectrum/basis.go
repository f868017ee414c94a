package spectrum

import (
	"math"

	"github.com/gogpu/optics/internal/cie"
)

// FineSamples is the resolution of the fine integration grid: three
// quadrature sub-intervals per CIE 5nm interval, plus the shared endpoint.
const FineSamples = (cie.Samples-1)*3 + 1

// Basis holds the per-gamut integration tables used by the fitter. It is
// built once per gamut and immutable afterwards; it is purely a function
// of the gamut value.
type Basis struct {
	// Lambda is the fine wavelength grid over [cie.LambdaMin, cie.LambdaMax].
	Lambda [FineSamples]float64

	// RGB holds, per output channel, the integration kernel
	// channel-response x illuminant x quadrature-weight over Lambda.
	RGB [3][FineSamples]float64

	// RGBToXYZ and XYZToRGB are the gamut's conversion matrices.
	RGBToXYZ [3][3]float64
	XYZToRGB [3][3]float64

	// Whitepoint is the illuminant's XYZ tristimulus integral.
	Whitepoint [3]float64
}

// NewBasis builds the integration tables for a gamut by integrating the
// CIE color-matching curves against the gamut's illuminant.
//
// The quadrature is the composite Simpson variant with three points per
// sub-interval: weight 0.375h at both endpoints, then alternating 1.125h,
// 1.125h, 0.75h at interior points. Reproducing this exact pattern is
// required for correct whitepoint normalization.
func NewBasis(gamut Gamut) *Basis {
	h := (cie.LambdaMax - cie.LambdaMin) / float64(FineSamples-1)

	b := &Basis{}
	rgbToXYZ, xyzToRGB := gamut.matrices()
	b.RGBToXYZ = *rgbToXYZ
	b.XYZToRGB = *xyzToRGB

	illuminant := gamut.illuminant()

	for i := 0; i < FineSamples; i++ {
		lambda := cie.LambdaMin + float64(i)*h

		xyz := [3]float64{
			cie.Interp(&cie.X, lambda),
			cie.Interp(&cie.Y, lambda),
			cie.Interp(&cie.Z, lambda),
		}
		illum := cie.Interp(illuminant, lambda)

		var weight float64
		switch {
		case i == 0 || i == FineSamples-1:
			weight = 0.375 * h
		case (i-1)%3 == 2:
			weight = 0.75 * h
		default:
			weight = 1.125 * h
		}

		b.Lambda[i] = lambda

		for k := 0; k < 3; k++ {
			for j := 0; j < 3; j++ {
				b.RGB[k][i] += b.XYZToRGB[k][j] * xyz[j] * illum * weight
			}
		}

		for j := 0; j < 3; j++ {
			b.Whitepoint[j] += xyz[j] * illum * weight
		}
	}

	return b
}

// labDelta is the L*a*b* nonlinearity threshold (6/29).
const labDelta = 6.0 / 29.0

func labF(t float64) float64 {
	if t > labDelta*labDelta*labDelta {
		return math.Cbrt(t)
	}
	return t/(labDelta*labDelta*3) + 4.0/29.0
}

// Lab converts an RGB triple in the basis's gamut to CIE L*a*b* relative
// to the basis whitepoint. The fitter measures residuals in this space so
// that errors are weighted perceptually.
func (b *Basis) Lab(rgb [3]float64) [3]float64 {
	var x, y, z float64
	for i := 0; i < 3; i++ {
		x += rgb[i] * b.RGBToXYZ[0][i]
		y += rgb[i] * b.RGBToXYZ[1][i]
		z += rgb[i] * b.RGBToXYZ[2][i]
	}

	fx := labF(x / b.Whitepoint[0])
	fy := labF(y / b.Whitepoint[1])
	fz := labF(z / b.Whitepoint[2])

	return [3]float64{
		116*fy - 16,
		500 * (fx - fy),
		200 * (fy - fz),
	}
}
