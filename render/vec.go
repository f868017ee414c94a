package render

import "math"

// Vec3 is a 3-component double precision vector. Geometry runs in
// float64; only spectral shading drops to float32.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Neg() Vec3            { return Vec3{-v.X, -v.Y, -v.Z} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Ray is an origin plus a normalized direction.
type Ray struct {
	Origin, Dir Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 { return r.Origin.Add(r.Dir.Scale(t)) }

// Frame is an orthonormal basis with N as the z axis, used to move
// directions between world and shading space.
type Frame struct {
	T, B, N Vec3
}

// NewFrame builds an orthonormal frame around the unit normal n using the
// branchless Duff et al. construction.
func NewFrame(n Vec3) Frame {
	s := math.Copysign(1, n.Z)
	a := -1 / (s + n.Z)
	b := n.X * n.Y * a

	return Frame{
		T: Vec3{1 + s*n.X*n.X*a, s * b, -s * n.X},
		B: Vec3{b, s + n.Y*n.Y*a, -n.Y},
		N: n,
	}
}

// ToWorld maps a shading-space direction into world space.
func (f Frame) ToWorld(v Vec3) Vec3 {
	return f.T.Scale(v.X).Add(f.B.Scale(v.Y)).Add(f.N.Scale(v.Z))
}

// ToLocal maps a world-space direction into shading space.
func (f Frame) ToLocal(v Vec3) Vec3 {
	return Vec3{v.Dot(f.T), v.Dot(f.B), v.Dot(f.N)}
}

// SampleCosineHemisphere maps two uniform samples to a cosine-weighted
// direction on the upper hemisphere. The PDF is cos(theta)/pi.
func SampleCosineHemisphere(u1, u2 float64) Vec3 {
	r := math.Sqrt(u1)
	phi := 2 * math.Pi * u2
	x := r * math.Cos(phi)
	y := r * math.Sin(phi)
	return Vec3{x, y, math.Sqrt(math.Max(0, 1-u1))}
}
