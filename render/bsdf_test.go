package render

import (
	"math"
	"testing"

	"github.com/gogpu/optics/spectrum"
)

func TestFrDielectric(t *testing.T) {
	// Normal incidence on glass: ((n-1)/(n+1))^2 = 0.04 at n = 1.5.
	if got := FrDielectric(1, 1.5); math.Abs(got-0.04) > 1e-3 {
		t.Errorf("normal incidence = %g, want ~0.04", got)
	}

	// Grazing incidence approaches full reflection.
	if got := FrDielectric(0.01, 1.5); got < 0.9 {
		t.Errorf("grazing incidence = %g, want near 1", got)
	}

	// Beyond the critical angle inside the denser medium.
	if got := FrDielectric(-0.2, 1.5); got != 1 {
		t.Errorf("total internal reflection = %g, want 1", got)
	}

	// Matched media reflect nothing.
	if got := FrDielectric(0.7, 1); got > 1e-12 {
		t.Errorf("matched media = %g, want 0", got)
	}
}

func TestRefractSnell(t *testing.T) {
	n := Vec3{0, 0, 1}
	wi := (Vec3{1, 0, 1}).Normalize() // 45 degrees

	wt, ok := refract(wi, n, 1.5)
	if !ok {
		t.Fatal("45 degrees into glass should refract")
	}
	sinI := math.Sqrt(1 - wi.Dot(n)*wi.Dot(n))
	sinT := math.Sqrt(1 - wt.Dot(n.Neg())*wt.Dot(n.Neg()))
	if math.Abs(sinI-1.5*sinT) > 1e-9 {
		t.Errorf("Snell violated: sinI=%g sinT=%g", sinI, sinT)
	}

	// Total internal reflection leaving a dense medium at a shallow angle.
	wi = (Vec3{0.95, 0, 0.3122498999}).Normalize()
	if _, ok := refract(wi, n, 1/1.5); ok {
		t.Error("shallow exit from glass should totally reflect")
	}
}

func TestReflect(t *testing.T) {
	n := Vec3{0, 0, 1}
	wi := (Vec3{1, 0, 1}).Normalize()
	wr := reflect(wi, n)
	want := (Vec3{-1, 0, 1}).Normalize()
	if wr.Sub(want).Length() > 1e-12 {
		t.Errorf("reflect = %v, want %v", wr, want)
	}
}

func TestDiffuseScatter(t *testing.T) {
	m := &Material{
		Kind:        MaterialDiffuse,
		Reflectance: spectrum.SigmoidPolynomial{C0: 0}, // constant 0.5
	}
	wl := spectrum.SampleUniformWavelengths(0.3)
	n := Vec3{0, 0, 1}

	res, ok := m.Scatter(Vec3{0, 0, 1}, n, wl, 0.4, 0.6, 0)
	if !ok {
		t.Fatal("diffuse scatter failed")
	}
	if res.Dir.Dot(n) <= 0 {
		t.Errorf("scattered below the surface: %v", res.Dir)
	}
	for i, w := range res.Weight {
		if math.Abs(float64(w)-0.5) > 1e-6 {
			t.Errorf("weight[%d] = %g, want 0.5", i, w)
		}
	}
}

func TestDielectricScatter(t *testing.T) {
	m := &Material{Kind: MaterialDielectric, IOR: 1.5}
	wl := spectrum.SampleUniformWavelengths(0.3)
	n := Vec3{0, 0, 1}
	wo := (Vec3{0.3, 0, 1}).Normalize()

	// uc = 0 always picks the reflection branch.
	res, ok := m.Scatter(wo, n, wl, 0, 0, 0)
	if !ok {
		t.Fatal("dielectric scatter failed")
	}
	if res.Dir.Z <= 0 {
		t.Errorf("Fresnel reflection went below the surface: %v", res.Dir)
	}

	// uc = 1 always picks the transmission branch.
	res, ok = m.Scatter(wo, n, wl, 0, 0, 1)
	if !ok {
		t.Fatal("dielectric scatter failed")
	}
	if res.Dir.Z >= 0 {
		t.Errorf("transmission stayed above the surface: %v", res.Dir)
	}
}
