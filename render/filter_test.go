package render

import "testing"

func TestBoxFilter(t *testing.T) {
	f := BoxFilter{R: 0.5}
	if got := f.Eval(0, 0); got != 1 {
		t.Errorf("Eval(0,0) = %g", got)
	}
	if got := f.Eval(0.4, -0.4); got != 1 {
		t.Errorf("Eval inside support = %g", got)
	}
	if got := f.Eval(0.6, 0); got != 0 {
		t.Errorf("Eval outside support = %g", got)
	}
}

func TestGaussianFilter(t *testing.T) {
	f := NewGaussianFilter(1.5, 0.5)
	if f.Radius() != 1.5 {
		t.Errorf("Radius = %g", f.Radius())
	}

	center := f.Eval(0, 0)
	if center <= 0 {
		t.Fatalf("center weight = %g", center)
	}
	// Decreasing away from the center, zero at the boundary.
	if f.Eval(0.5, 0) >= center || f.Eval(1.0, 0) >= f.Eval(0.5, 0) {
		t.Error("weights do not decrease with distance")
	}
	if got := f.Eval(1.5, 0); got != 0 {
		t.Errorf("boundary weight = %g, want 0", got)
	}
	if got := f.Eval(2, 2); got != 0 {
		t.Errorf("outside weight = %g, want 0", got)
	}
}
