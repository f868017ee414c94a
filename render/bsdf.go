package render

import (
	"math"

	"github.com/gogpu/optics/spectrum"
)

// MaterialKind selects the scattering model of a surface.
type MaterialKind int

const (
	// MaterialDiffuse is a Lambertian reflector.
	MaterialDiffuse MaterialKind = iota
	// MaterialDielectric is a smooth dielectric with Fresnel
	// reflection and refraction.
	MaterialDielectric
)

// Material binds a scattering model to its spectral parameters. Diffuse
// surfaces carry a sigmoid-polynomial reflectance; dielectrics carry an
// index of refraction.
type Material struct {
	Kind        MaterialKind
	Reflectance spectrum.SigmoidPolynomial
	IOR         float64
}

// FrDielectric evaluates the unpolarized Fresnel reflectance of a smooth
// dielectric boundary. cosThetaI is the incident cosine against the
// normal; eta is the relative index of refraction (transmitted over
// incident). Total internal reflection returns 1.
func FrDielectric(cosThetaI, eta float64) float64 {
	cosThetaI = math.Min(1, math.Max(-1, cosThetaI))
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
	}

	sin2ThetaT := (1 - cosThetaI*cosThetaI) / (eta * eta)
	if sin2ThetaT >= 1 {
		return 1
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)

	rPar := (eta*cosThetaI - cosThetaT) / (eta*cosThetaI + cosThetaT)
	rPerp := (cosThetaI - eta*cosThetaT) / (cosThetaI + eta*cosThetaT)
	return 0.5 * (rPar*rPar + rPerp*rPerp)
}

// refract computes the refracted direction, returning false on total
// internal reflection. wi points away from the surface; n is the normal
// on the incident side.
func refract(wi, n Vec3, eta float64) (Vec3, bool) {
	cosThetaI := wi.Dot(n)
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return Vec3{}, false
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	return wi.Neg().Scale(1 / eta).Add(n.Scale(cosThetaI/eta - cosThetaT)), true
}

func reflect(wi, n Vec3) Vec3 {
	return wi.Neg().Add(n.Scale(2 * wi.Dot(n)))
}

// ScatterResult is the outcome of sampling a material: the continuation
// direction and the spectral throughput weight (BSDF value times cosine
// over PDF).
type ScatterResult struct {
	Dir    Vec3
	Weight spectrum.SampledSpectrum
}

// Scatter samples the material's BSDF at a hit. wo is the outgoing
// direction (toward the viewer), n the outward surface normal; u1, u2, uc
// are uniform samples. The boolean is false when the path terminates
// (zero throughput).
func (m *Material) Scatter(wo, n Vec3, wl spectrum.SampledWavelengths, u1, u2, uc float64) (ScatterResult, bool) {
	switch m.Kind {
	case MaterialDielectric:
		entering := wo.Dot(n) > 0
		nl := n
		eta := m.IOR
		if !entering {
			nl = n.Neg()
			eta = 1 / eta
		}

		fr := FrDielectric(wo.Dot(nl), eta)
		if uc < fr {
			return ScatterResult{
				Dir:    reflect(wo, nl),
				Weight: spectrum.SampledSpectrum{1, 1, 1, 1},
			}, true
		}
		dir, ok := refract(wo, nl, eta)
		if !ok {
			return ScatterResult{
				Dir:    reflect(wo, nl),
				Weight: spectrum.SampledSpectrum{1, 1, 1, 1},
			}, true
		}
		return ScatterResult{Dir: dir, Weight: spectrum.SampledSpectrum{1, 1, 1, 1}}, true

	default:
		nl := n
		if wo.Dot(n) < 0 {
			nl = n.Neg()
		}
		frame := NewFrame(nl)
		local := SampleCosineHemisphere(u1, u2)
		if local.Z == 0 {
			return ScatterResult{}, false
		}

		// Cosine-weighted sampling cancels the cosine and the 1/pi, so
		// the weight is the reflectance itself.
		return ScatterResult{
			Dir:    frame.ToWorld(local),
			Weight: m.Reflectance.Sample(wl),
		}, true
	}
}
