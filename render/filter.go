package render

import "math"

// Filter is a pixel reconstruction filter. Eval is called with offsets
// relative to the pixel center, within [-Radius, Radius] on both axes.
type Filter interface {
	Radius() float64
	Eval(x, y float64) float64
}

// BoxFilter weights every sample inside its support equally.
type BoxFilter struct {
	R float64
}

func (f BoxFilter) Radius() float64 { return f.R }

func (f BoxFilter) Eval(x, y float64) float64 {
	if math.Abs(x) > f.R || math.Abs(y) > f.R {
		return 0
	}
	return 1
}

// GaussianFilter is a truncated Gaussian, shifted so the weight reaches
// zero exactly at the support boundary.
type GaussianFilter struct {
	R     float64
	Sigma float64

	expR float64
}

// NewGaussianFilter builds a Gaussian filter with the given radius and
// standard deviation. Radius 1.5 and sigma 0.5 are reasonable defaults.
func NewGaussianFilter(radius, sigma float64) *GaussianFilter {
	return &GaussianFilter{
		R:     radius,
		Sigma: sigma,
		expR:  gaussian(radius, sigma),
	}
}

func (f *GaussianFilter) Radius() float64 { return f.R }

func (f *GaussianFilter) Eval(x, y float64) float64 {
	gx := math.Max(0, gaussian(x, f.Sigma)-f.expR)
	gy := math.Max(0, gaussian(y, f.Sigma)-f.expR)
	return gx * gy
}

func gaussian(x, sigma float64) float64 {
	return math.Exp(-x * x / (2 * sigma * sigma))
}
