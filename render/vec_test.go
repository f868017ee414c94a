package render

import (
	"math"
	"testing"
)

func TestVecOps(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Vec3{-3, -3, -3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %g", got)
	}
	if got := a.Cross(b); got != (Vec3{-3, 6, -3}) {
		t.Errorf("Cross = %v", got)
	}
	if got := (Vec3{3, 4, 0}).Length(); got != 5 {
		t.Errorf("Length = %g", got)
	}
	if got := (Vec3{0, 0, 0}).Normalize(); got != (Vec3{}) {
		t.Errorf("Normalize(zero) = %v", got)
	}
}

func TestFrameOrthonormal(t *testing.T) {
	normals := []Vec3{
		{0, 0, 1}, {0, 0, -1}, {1, 0, 0}, {0, 1, 0},
		(Vec3{1, 2, 3}).Normalize(),
		(Vec3{-0.3, 0.9, -0.1}).Normalize(),
	}
	for _, n := range normals {
		f := NewFrame(n)
		checks := []struct {
			name string
			v    float64
			want float64
		}{
			{"|T|", f.T.Length(), 1},
			{"|B|", f.B.Length(), 1},
			{"T.B", f.T.Dot(f.B), 0},
			{"T.N", f.T.Dot(f.N), 0},
			{"B.N", f.B.Dot(f.N), 0},
		}
		for _, c := range checks {
			if math.Abs(c.v-c.want) > 1e-9 {
				t.Errorf("n=%v: %s = %g, want %g", n, c.name, c.v, c.want)
			}
		}
	}
}

func TestFrameRoundTrip(t *testing.T) {
	f := NewFrame((Vec3{1, -2, 0.5}).Normalize())
	v := (Vec3{0.3, -0.4, 0.7}).Normalize()
	back := f.ToWorld(f.ToLocal(v))
	if back.Sub(v).Length() > 1e-12 {
		t.Errorf("round trip drift: %v vs %v", back, v)
	}
}

func TestSampleCosineHemisphere(t *testing.T) {
	for _, u := range [][2]float64{{0, 0}, {0.5, 0.5}, {0.99, 0.01}, {0.25, 0.75}} {
		d := SampleCosineHemisphere(u[0], u[1])
		if d.Z < 0 {
			t.Errorf("u=%v: sampled below the hemisphere: %v", u, d)
		}
		if math.Abs(d.Length()-1) > 1e-9 {
			t.Errorf("u=%v: |d| = %g, want 1", u, d.Length())
		}
	}
}
