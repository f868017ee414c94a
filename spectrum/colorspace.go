package spectrum

// Mat3 is a row-major 3x3 matrix of float64, used for color space
// conversions derived at runtime (primaries to XYZ, chromatic adaptation).
type Mat3 [3][3]float64

// MulVec applies the matrix to a column vector.
func (m *Mat3) MulVec(v [3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return out
}

// Mul returns the matrix product m * o.
func (m *Mat3) Mul(o *Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return out
}

// Inverse returns the matrix inverse via the adjugate. The second return
// is false when the matrix is not invertible.
func (m *Mat3) Inverse() (Mat3, bool) {
	a, b, c := m[0][0], m[0][1], m[0][2]
	d, e, f := m[1][0], m[1][1], m[1][2]
	g, h, i := m[2][0], m[2][1], m[2][2]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if det == 0 {
		return Mat3{}, false
	}
	inv := 1 / det

	return Mat3{
		{(e*i - f*h) * inv, (c*h - b*i) * inv, (b*f - c*e) * inv},
		{(f*g - d*i) * inv, (a*i - c*g) * inv, (c*d - a*f) * inv},
		{(d*h - e*g) * inv, (b*g - a*h) * inv, (a*e - b*d) * inv},
	}, true
}

// XYZFromXYY lifts a chromaticity (x, y) with luminance Y to XYZ.
func XYZFromXYY(x, y, yVal float64) [3]float64 {
	if y == 0 {
		return [3]float64{}
	}
	return [3]float64{x * yVal / y, yVal, (1 - x - y) * yVal / y}
}

// RGBColorSpace is an RGB color space derived from primary and whitepoint
// chromaticities plus an illuminant spectrum, with conversion matrices to
// and from CIE XYZ.
type RGBColorSpace struct {
	Illuminant *DenselySampled

	XYZFromRGB Mat3
	RGBFromXYZ Mat3

	// R, G, B and W are the chromaticities of the primaries and the
	// illuminant whitepoint.
	R, G, B, W [2]float64
}

// NewRGBColorSpace derives the conversion matrices from the primary
// chromaticities and the illuminant's whitepoint, scaling the primaries
// so that the whitepoint maps to RGB (1, 1, 1).
func NewRGBColorSpace(r, g, b [2]float64, illuminant *DenselySampled) *RGBColorSpace {
	wXYZ := illuminantXYZ(illuminant)
	w := [2]float64{wXYZ[0] / (wXYZ[0] + wXYZ[1] + wXYZ[2]), wXYZ[1] / (wXYZ[0] + wXYZ[1] + wXYZ[2])}

	rXYZ := XYZFromXYY(r[0], r[1], 1)
	gXYZ := XYZFromXYY(g[0], g[1], 1)
	bXYZ := XYZFromXYY(b[0], b[1], 1)

	primaries := Mat3{
		{rXYZ[0], gXYZ[0], bXYZ[0]},
		{rXYZ[1], gXYZ[1], bXYZ[1]},
		{rXYZ[2], gXYZ[2], bXYZ[2]},
	}

	primariesInv, ok := primaries.Inverse()
	if !ok {
		// Degenerate primaries never occur for the built-in spaces.
		return &RGBColorSpace{Illuminant: illuminant, R: r, G: g, B: b, W: w}
	}
	c := primariesInv.MulVec(wXYZ)

	var xyzFromRGB Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			xyzFromRGB[i][j] = primaries[i][j] * c[j]
		}
	}
	rgbFromXYZ, _ := xyzFromRGB.Inverse()

	return &RGBColorSpace{
		Illuminant: illuminant,
		XYZFromRGB: xyzFromRGB,
		RGBFromXYZ: rgbFromXYZ,
		R:          r, G: g, B: b, W: w,
	}
}

// illuminantXYZ integrates the illuminant against the matching curves.
func illuminantXYZ(illuminant *DenselySampled) [3]float64 {
	var xyz [3]float64
	for i := 0; i < DenselySampledCount; i++ {
		lambda := LambdaMin + float32(i)
		v := float64(illuminant.Value(lambda))
		xyz[0] += float64(CIEXSpectrum.Value(lambda)) * v
		xyz[1] += float64(CIEYSpectrum.Value(lambda)) * v
		xyz[2] += float64(CIEZSpectrum.Value(lambda)) * v
	}
	// Scale so the whitepoint's Y is 1.
	if xyz[1] != 0 {
		inv := 1 / xyz[1]
		for j := range xyz {
			xyz[j] *= inv
		}
	}
	return xyz
}

// ToXYZ converts an RGB triple in this space to XYZ.
func (cs *RGBColorSpace) ToXYZ(rgb [3]float64) [3]float64 {
	return cs.XYZFromRGB.MulVec(rgb)
}

// ToRGB converts an XYZ triple to this space's RGB.
func (cs *RGBColorSpace) ToRGB(xyz [3]float64) [3]float64 {
	return cs.RGBFromXYZ.MulVec(xyz)
}

// SRGBColorSpace is the sRGB space derived from its primary
// chromaticities under D65.
var SRGBColorSpace = NewRGBColorSpace(
	[2]float64{0.64, 0.33},
	[2]float64{0.30, 0.60},
	[2]float64{0.15, 0.06},
	IlluminantD65,
)

// Bradford-style LMS cone response matrices for chromatic adaptation.
var (
	lmsFromXYZ = Mat3{
		{0.8951, 0.2664, -0.1614},
		{-0.7502, 1.7135, 0.0367},
		{0.0389, -0.0685, 1.0296},
	}
	xyzFromLMS = Mat3{
		{0.986993, -0.147054, 0.159963},
		{0.432305, 0.51836, 0.0492912},
		{-0.00852866, 0.0400428, 0.968487},
	}
)

// WhiteBalance returns the von Kries chromatic adaptation matrix taking
// colors lit by the source whitepoint to the target whitepoint, with the
// diagonal scaling applied in LMS cone space.
func WhiteBalance(srcWhite, targetWhite [2]float64) Mat3 {
	srcXYZ := XYZFromXYY(srcWhite[0], srcWhite[1], 1)
	dstXYZ := XYZFromXYY(targetWhite[0], targetWhite[1], 1)

	srcLMS := lmsFromXYZ.MulVec(srcXYZ)
	dstLMS := lmsFromXYZ.MulVec(dstXYZ)

	var correct Mat3
	for i := 0; i < 3; i++ {
		correct[i][i] = dstLMS[i] / srcLMS[i]
	}

	tmp := correct.Mul(&lmsFromXYZ)
	return xyzFromLMS.Mul(&tmp)
}
