package spectrum

import "math"

// sRGB transfer function with a lookup table for the 8-bit decode
// direction, which is the hot path when ingesting texture data. The
// encode direction stays analytic since film output runs once per pixel.

// srgbToLinearLUT provides O(1) sRGB byte to linear conversion.
var srgbToLinearLUT [256]float32

func init() {
	for i := 0; i < 256; i++ {
		s := float64(i) / 255.0
		var linear float64
		if s <= 0.04045 {
			linear = s / 12.92
		} else {
			linear = math.Pow((s+0.055)/1.055, 2.4)
		}
		srgbToLinearLUT[i] = float32(linear)
	}
}

// SRGBToLinear converts an 8-bit sRGB-encoded component to linear.
func SRGBToLinear(v uint8) float32 {
	return srgbToLinearLUT[v]
}

// LinearToSRGB applies the sRGB encoding to a linear component in [0, 1].
func LinearToSRGB(v float32) float32 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	f := float64(v)
	if f <= 0.0031308 {
		return float32(f * 12.92)
	}
	return float32(1.055*math.Pow(f, 1.0/2.4) - 0.055)
}
