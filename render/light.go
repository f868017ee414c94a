package render

import "github.com/gogpu/optics/spectrum"

// PointLight emits a spectral radiant intensity uniformly in all
// directions from a single position.
type PointLight struct {
	Position Vec3
	Spectrum *spectrum.DenselySampled
	Scale    float32
}

// Intensity returns the light's sampled radiant intensity.
func (l *PointLight) Intensity(wl spectrum.SampledWavelengths) spectrum.SampledSpectrum {
	if l.Spectrum == nil {
		return spectrum.SampledSpectrum{}
	}
	return l.Spectrum.Sample(wl).Scale(l.Scale)
}

// UniformInfiniteLight surrounds the scene with a constant spectral
// radiance in every direction, typically an illuminant spectrum scaled
// to the desired exposure.
type UniformInfiniteLight struct {
	Spectrum *spectrum.DenselySampled
	Scale    float32
}

// Le returns the environment radiance for a ray that escaped the scene.
func (l *UniformInfiniteLight) Le(wl spectrum.SampledWavelengths) spectrum.SampledSpectrum {
	if l == nil || l.Spectrum == nil {
		return spectrum.SampledSpectrum{}
	}
	return l.Spectrum.Sample(wl).Scale(l.Scale)
}
