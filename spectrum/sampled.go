package spectrum

import (
	"math"

	"github.com/gogpu/optics/internal/cie"
)

// SpectrumSamples is the number of wavelengths carried per spectral path
// sample during rendering.
const SpectrumSamples = 4

// CIEYIntegral is the integral of the y-bar matching curve over the
// visible range, used to normalize spectral-to-XYZ conversion.
const CIEYIntegral = 106.856895

// SampledWavelengths is a set of wavelengths (nm) with the PDF each was
// sampled with.
type SampledWavelengths struct {
	Lambda [SpectrumSamples]float32
	PDF    [SpectrumSamples]float32
}

// SampleUniformWavelengths picks SpectrumSamples wavelengths stratified
// uniformly over the visible range from a single uniform sample u in
// [0, 1). Wavelengths that stratify past LambdaMax wrap around.
func SampleUniformWavelengths(u float32) SampledWavelengths {
	var wl SampledWavelengths

	lambda := LambdaMin + u*(LambdaMax-LambdaMin)
	delta := (LambdaMax - LambdaMin) / SpectrumSamples

	for i := 0; i < SpectrumSamples; i++ {
		wl.Lambda[i] = lambda
		wl.PDF[i] = 1 / (LambdaMax - LambdaMin)
		lambda += delta
		if lambda > LambdaMax {
			lambda = LambdaMin + (lambda - LambdaMax)
		}
	}

	return wl
}

// SampledSpectrum holds one spectral value per sampled wavelength.
type SampledSpectrum [SpectrumSamples]float32

// Add returns the componentwise sum.
func (s SampledSpectrum) Add(o SampledSpectrum) SampledSpectrum {
	for i := range s {
		s[i] += o[i]
	}
	return s
}

// Mul returns the componentwise product.
func (s SampledSpectrum) Mul(o SampledSpectrum) SampledSpectrum {
	for i := range s {
		s[i] *= o[i]
	}
	return s
}

// Scale returns the spectrum scaled by v.
func (s SampledSpectrum) Scale(v float32) SampledSpectrum {
	for i := range s {
		s[i] *= v
	}
	return s
}

// SafeDiv divides componentwise, mapping division by zero to zero.
func (s SampledSpectrum) SafeDiv(o SampledSpectrum) SampledSpectrum {
	for i := range s {
		if o[i] != 0 {
			s[i] /= o[i]
		} else {
			s[i] = 0
		}
	}
	return s
}

// Average returns the mean of the sampled values.
func (s SampledSpectrum) Average() float32 {
	sum := float32(0)
	for _, v := range s {
		sum += v
	}
	return sum / SpectrumSamples
}

// MaxComponent returns the largest sampled value.
func (s SampledSpectrum) MaxComponent() float32 {
	m := s[0]
	for _, v := range s[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Sample evaluates the polynomial's reflectance at each wavelength.
func (p SigmoidPolynomial) Sample(wl SampledWavelengths) SampledSpectrum {
	var s SampledSpectrum
	for i := 0; i < SpectrumSamples; i++ {
		s[i] = p.Value(wl.Lambda[i])
	}
	return s
}

// DenselySampledCount is the number of 1nm samples over the visible range.
const DenselySampledCount = int(LambdaMax-LambdaMin) + 1

// DenselySampled is a spectrum tabulated at 1nm resolution over
// [LambdaMin, LambdaMax].
type DenselySampled struct {
	values [DenselySampledCount]float32
}

// NewDenselySampled tabulates fn (taking a wavelength in nm) at 1nm steps.
func NewDenselySampled(fn func(lambda float32) float32) *DenselySampled {
	d := &DenselySampled{}
	for i := range d.values {
		d.values[i] = fn(LambdaMin + float32(i))
	}
	return d
}

// Value returns the tabulated value at lambda (nm), zero outside range.
func (d *DenselySampled) Value(lambda float32) float32 {
	i := int(math.Round(float64(lambda - LambdaMin)))
	if i < 0 || i >= DenselySampledCount {
		return 0
	}
	return d.values[i]
}

// Sample evaluates the spectrum at each sampled wavelength.
func (d *DenselySampled) Sample(wl SampledWavelengths) SampledSpectrum {
	var s SampledSpectrum
	for i := 0; i < SpectrumSamples; i++ {
		s[i] = d.Value(wl.Lambda[i])
	}
	return s
}

// Densely sampled CIE matching curves and illuminants, derived from the
// 5nm tables by linear interpolation.
var (
	CIEXSpectrum = NewDenselySampled(func(l float32) float32 { return float32(cie.Interp(&cie.X, float64(l))) })
	CIEYSpectrum = NewDenselySampled(func(l float32) float32 { return float32(cie.Interp(&cie.Y, float64(l))) })
	CIEZSpectrum = NewDenselySampled(func(l float32) float32 { return float32(cie.Interp(&cie.Z, float64(l))) })

	// IlluminantD65 is the normalized D65 spectral power distribution.
	IlluminantD65 = NewDenselySampled(func(l float32) float32 { return float32(cie.Interp(&cie.D65, float64(l))) })
)

// ToXYZ converts a sampled spectrum to CIE XYZ by Monte Carlo estimation
// against the matching curves.
func (s SampledSpectrum) ToXYZ(wl SampledWavelengths) [3]float32 {
	var xyz [3]float32
	for i := 0; i < SpectrumSamples; i++ {
		if wl.PDF[i] == 0 {
			continue
		}
		w := s[i] / wl.PDF[i]
		xyz[0] += CIEXSpectrum.Value(wl.Lambda[i]) * w
		xyz[1] += CIEYSpectrum.Value(wl.Lambda[i]) * w
		xyz[2] += CIEZSpectrum.Value(wl.Lambda[i]) * w
	}
	inv := float32(1.0 / (SpectrumSamples * CIEYIntegral))
	for j := range xyz {
		xyz[j] *= inv
	}
	return xyz
}
