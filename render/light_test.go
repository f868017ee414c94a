package render

import (
	"context"
	"testing"

	"github.com/gogpu/optics/spectrum"
)

func TestPointLightIntensity(t *testing.T) {
	wl := spectrum.SampleUniformWavelengths(0.4)

	l := PointLight{Spectrum: spectrum.IlluminantD65, Scale: 2}
	got := l.Intensity(wl)
	want := spectrum.IlluminantD65.Sample(wl).Scale(2)
	if got != want {
		t.Errorf("Intensity = %v, want %v", got, want)
	}

	empty := PointLight{}
	if got := empty.Intensity(wl); got != (spectrum.SampledSpectrum{}) {
		t.Errorf("spectrum-less light emitted %v", got)
	}
}

func TestInfiniteLightNil(t *testing.T) {
	var l *UniformInfiniteLight
	wl := spectrum.SampleUniformWavelengths(0.4)
	if got := l.Le(wl); got != (spectrum.SampledSpectrum{}) {
		t.Errorf("nil light emitted %v", got)
	}
}

func TestSceneOccluded(t *testing.T) {
	sc := &Scene{
		Spheres: []Sphere{{Center: Vec3{0, 0, -2}, Radius: 0.5}},
	}

	p := Vec3{0, 0, 0}
	behind := Vec3{0, 0, -4}
	if !sc.Occluded(p, behind) {
		t.Error("sphere should block the segment")
	}

	aside := Vec3{0, 3, -2}
	if sc.Occluded(p, aside) {
		t.Error("clear segment reported occluded")
	}
}

// TestPointLightIlluminates renders a plane lit only by a point light and
// checks the image is not black.
func TestPointLightIlluminates(t *testing.T) {
	gray := spectrum.SigmoidPolynomial{} // constant 0.5
	sc := &Scene{
		Planes: []Plane{
			{Point: Vec3{0, -1, 0}, Normal: Vec3{0, 1, 0},
				Mat: &Material{Kind: MaterialDiffuse, Reflectance: gray}},
		},
		Points: []PointLight{
			{Position: Vec3{0, 2, -2}, Spectrum: spectrum.IlluminantD65, Scale: 20},
		},
	}

	film, err := NewFilm(8, 8, neutralSensor(), BoxFilter{R: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	in := &Integrator{
		Scene:  sc,
		Camera: NewPerspectiveCamera(Vec3{0, 0, 1}, Vec3{0, -1, -2}, Vec3{0, 1, 0}, 60, 1),
		Film:   film,
		Config: Config{SamplesPerPixel: 4, MaxDepth: 2, Seed: 3},
	}
	if err := in.Render(context.Background()); err != nil {
		t.Fatal(err)
	}

	sum := 0.0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			rgb := film.resolve(x, y)
			sum += rgb[0] + rgb[1] + rgb[2]
		}
	}
	if sum == 0 {
		t.Error("point-lit plane rendered black")
	}
}
