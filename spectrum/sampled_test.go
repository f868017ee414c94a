package spectrum

import (
	"math"
	"testing"
)

func TestSampleUniformWavelengths(t *testing.T) {
	for _, u := range []float32{0, 0.25, 0.5, 0.999} {
		wl := SampleUniformWavelengths(u)
		for i := 0; i < SpectrumSamples; i++ {
			if wl.Lambda[i] < LambdaMin || wl.Lambda[i] > LambdaMax {
				t.Errorf("u=%g: lambda[%d] = %g outside visible range", u, i, wl.Lambda[i])
			}
			want := 1 / (LambdaMax - LambdaMin)
			if wl.PDF[i] != want {
				t.Errorf("u=%g: pdf[%d] = %g, want %g", u, i, wl.PDF[i], want)
			}
		}
	}

	// Stratification: for u=0 the wavelengths split the range into equal
	// strata starting at LambdaMin.
	wl := SampleUniformWavelengths(0)
	delta := (LambdaMax - LambdaMin) / SpectrumSamples
	for i := 0; i < SpectrumSamples; i++ {
		want := LambdaMin + float32(i)*delta
		if math.Abs(float64(wl.Lambda[i]-want)) > 1e-3 {
			t.Errorf("lambda[%d] = %g, want %g", i, wl.Lambda[i], want)
		}
	}
}

func TestSampledSpectrumOps(t *testing.T) {
	a := SampledSpectrum{1, 2, 3, 4}
	b := SampledSpectrum{2, 2, 0, 1}

	if got := a.Add(b); got != (SampledSpectrum{3, 4, 3, 5}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Mul(b); got != (SampledSpectrum{2, 4, 0, 4}) {
		t.Errorf("Mul = %v", got)
	}
	if got := a.Scale(2); got != (SampledSpectrum{2, 4, 6, 8}) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.SafeDiv(b); got != (SampledSpectrum{0.5, 1, 0, 4}) {
		t.Errorf("SafeDiv = %v", got)
	}
	if got := a.Average(); got != 2.5 {
		t.Errorf("Average = %g", got)
	}
	if got := a.MaxComponent(); got != 4 {
		t.Errorf("MaxComponent = %g", got)
	}
}

// TestConstantSpectrumToXYZ estimates the XYZ of a constant unit
// reflectance over many wavelength draws. The Y estimate must converge to
// 1 by the y-bar normalization.
func TestConstantSpectrumToXYZ(t *testing.T) {
	const draws = 256

	var sum [3]float64
	for d := 0; d < draws; d++ {
		u := (float32(d) + 0.5) / draws
		wl := SampleUniformWavelengths(u)
		xyz := SampledSpectrum{1, 1, 1, 1}.ToXYZ(wl)
		for j := 0; j < 3; j++ {
			sum[j] += float64(xyz[j])
		}
	}
	for j := range sum {
		sum[j] /= draws
	}

	t.Logf("estimated XYZ of unit reflectance: %v", sum)
	if math.Abs(sum[1]-1) > 2e-2 {
		t.Errorf("Y = %g, want ~1", sum[1])
	}
}

func TestDenselySampled(t *testing.T) {
	d := NewDenselySampled(func(l float32) float32 { return l / 1000 })

	if v := d.Value(360); v != 0.36 {
		t.Errorf("Value(360) = %g, want 0.36", v)
	}
	if v := d.Value(830); v != 0.83 {
		t.Errorf("Value(830) = %g, want 0.83", v)
	}
	if v := d.Value(200); v != 0 {
		t.Errorf("Value below range = %g, want 0", v)
	}
	if v := d.Value(900); v != 0 {
		t.Errorf("Value above range = %g, want 0", v)
	}
}

func TestCIEYSpectrumPeak(t *testing.T) {
	// y-bar peaks near 555nm at ~1.
	peak := CIEYSpectrum.Value(555)
	if math.Abs(float64(peak)-1) > 0.02 {
		t.Errorf("y-bar at 555nm = %g, want ~1", peak)
	}
	if CIEYSpectrum.Value(360) > 0.01 || CIEYSpectrum.Value(830) > 0.01 {
		t.Error("y-bar should vanish at the range boundaries")
	}
}

func TestPolynomialSample(t *testing.T) {
	p := SigmoidPolynomial{C2: 0, C1: 0, C0: 0}
	wl := SampleUniformWavelengths(0.5)
	s := p.Sample(wl)
	for i, v := range s {
		if v != 0.5 {
			t.Errorf("sample %d = %g, want 0.5", i, v)
		}
	}
}
