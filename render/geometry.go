package render

import "math"

// Intersection describes a ray hit: the distance along the ray, the hit
// point, the outward surface normal and the surface material.
type Intersection struct {
	T   float64
	P   Vec3
	N   Vec3
	Mat *Material
}

// Sphere is an analytic sphere primitive.
type Sphere struct {
	Center Vec3
	Radius float64
	Mat    *Material
}

// Intersect tests the ray against the sphere within (tMin, tMax).
func (s *Sphere) Intersect(r Ray, tMin, tMax float64) (Intersection, bool) {
	oc := r.Origin.Sub(s.Center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - c
	if disc < 0 {
		return Intersection{}, false
	}

	sq := math.Sqrt(disc)
	t := -b - sq
	if t <= tMin || t >= tMax {
		t = -b + sq
		if t <= tMin || t >= tMax {
			return Intersection{}, false
		}
	}

	p := r.At(t)
	return Intersection{
		T:   t,
		P:   p,
		N:   p.Sub(s.Center).Scale(1 / s.Radius),
		Mat: s.Mat,
	}, true
}

// Plane is an infinite plane through Point with unit normal Normal.
type Plane struct {
	Point  Vec3
	Normal Vec3
	Mat    *Material
}

// Intersect tests the ray against the plane within (tMin, tMax).
func (p *Plane) Intersect(r Ray, tMin, tMax float64) (Intersection, bool) {
	denom := p.Normal.Dot(r.Dir)
	if math.Abs(denom) < 1e-9 {
		return Intersection{}, false
	}
	t := p.Point.Sub(r.Origin).Dot(p.Normal) / denom
	if t <= tMin || t >= tMax {
		return Intersection{}, false
	}
	return Intersection{T: t, P: r.At(t), N: p.Normal, Mat: p.Mat}, true
}

// Scene is a flat list of primitives plus an infinite environment light.
// The primitive counts in a demo scene are small, so intersection is a
// linear scan.
type Scene struct {
	Spheres []Sphere
	Planes  []Plane
	Points  []PointLight
	Light   *UniformInfiniteLight
}

// Occluded reports whether anything blocks the segment from p to q.
func (sc *Scene) Occluded(p, q Vec3) bool {
	d := q.Sub(p)
	dist := d.Length()
	if dist == 0 {
		return false
	}
	_, hit := sc.Intersect(Ray{Origin: p, Dir: d.Scale(1 / dist)}, 1e-4, dist-1e-4)
	return hit
}

// Intersect returns the nearest hit within (tMin, tMax).
func (sc *Scene) Intersect(r Ray, tMin, tMax float64) (Intersection, bool) {
	var nearest Intersection
	hitAny := false

	for i := range sc.Spheres {
		if hit, ok := sc.Spheres[i].Intersect(r, tMin, tMax); ok {
			nearest, tMax, hitAny = hit, hit.T, true
		}
	}
	for i := range sc.Planes {
		if hit, ok := sc.Planes[i].Intersect(r, tMin, tMax); ok {
			nearest, tMax, hitAny = hit, hit.T, true
		}
	}

	return nearest, hitAny
}
