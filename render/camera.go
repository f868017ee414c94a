package render

import "math"

// PerspectiveCamera generates primary rays through a pinhole with a
// vertical field of view in degrees.
type PerspectiveCamera struct {
	origin    Vec3
	lowerLeft Vec3
	horiz     Vec3
	vert      Vec3
}

// NewPerspectiveCamera builds a camera at eye looking at target, with up
// as the world up hint, vfov the vertical field of view in degrees, and
// aspect the width/height ratio of the film.
func NewPerspectiveCamera(eye, target, up Vec3, vfov, aspect float64) *PerspectiveCamera {
	theta := vfov * math.Pi / 180
	halfH := math.Tan(theta / 2)
	halfW := aspect * halfH

	w := eye.Sub(target).Normalize()
	u := up.Cross(w).Normalize()
	v := w.Cross(u)

	return &PerspectiveCamera{
		origin:    eye,
		lowerLeft: eye.Sub(u.Scale(halfW)).Sub(v.Scale(halfH)).Sub(w),
		horiz:     u.Scale(2 * halfW),
		vert:      v.Scale(2 * halfH),
	}
}

// GenerateRay maps normalized film coordinates (s, t) in [0, 1]^2 to a
// primary ray, with t = 0 at the bottom of the image.
func (c *PerspectiveCamera) GenerateRay(s, t float64) Ray {
	dir := c.lowerLeft.
		Add(c.horiz.Scale(s)).
		Add(c.vert.Scale(t)).
		Sub(c.origin).
		Normalize()
	return Ray{Origin: c.origin, Dir: dir}
}
