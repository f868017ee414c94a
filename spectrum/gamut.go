// Package spectrum implements the spectral color pipeline: it fits smooth
// sigmoid-polynomial spectra to RGB values by Gauss-Newton optimization
// against the CIE color-matching curves, generates the RGB-to-spectrum
// lookup tables consumed at render time, and evaluates the fitted spectra.
package spectrum

import (
	"fmt"

	"github.com/gogpu/optics/internal/cie"
)

// Gamut selects a working RGB color space with a known conversion to CIE
// XYZ and an associated standard illuminant.
type Gamut uint8

const (
	// GamutSRGB is the standard sRGB color space (D65).
	GamutSRGB Gamut = iota
	// GamutProPhotoRGB is the ProPhoto RGB (ROMM) color space (D50).
	GamutProPhotoRGB
	// GamutACES2065_1 is the ACES2065-1 archival color space (D60).
	GamutACES2065_1
	// GamutRec2020 is the ITU-R BT.2020 color space (D65).
	GamutRec2020
	// GamutERGB is the eciRGB color space (E).
	GamutERGB
	// GamutXYZ passes CIE XYZ through unchanged (E).
	GamutXYZ
	// GamutDCIP3 is the DCI-P3 digital cinema color space (D65).
	GamutDCIP3
)

// String returns the gamut's lowercase identifier as used by the table
// generation tooling.
func (g Gamut) String() string {
	switch g {
	case GamutSRGB:
		return "srgb"
	case GamutProPhotoRGB:
		return "pro_photo_rgb"
	case GamutACES2065_1:
		return "aces2065_1"
	case GamutRec2020:
		return "rec2020"
	case GamutERGB:
		return "ergb"
	case GamutXYZ:
		return "xyz"
	case GamutDCIP3:
		return "dci_p3"
	}
	return fmt.Sprintf("Gamut(%d)", uint8(g))
}

// ParseGamut converts an identifier accepted by String back to a Gamut.
func ParseGamut(s string) (Gamut, error) {
	for g := GamutSRGB; g <= GamutDCIP3; g++ {
		if g.String() == s {
			return g, nil
		}
	}
	return 0, fmt.Errorf("spectrum: unknown gamut %q", s)
}

var xyzToSRGB = [3][3]float64{
	{3.240479, -1.537150, -0.498535},
	{-0.969256, 1.875991, 0.041556},
	{0.055648, -0.204043, 1.057311},
}

var srgbToXYZ = [3][3]float64{
	{0.412453, 0.357580, 0.180423},
	{0.212671, 0.715160, 0.072169},
	{0.019334, 0.119193, 0.950227},
}

var xyzToXYZ = [3][3]float64{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

var xyzToERGB = [3][3]float64{
	{2.689989, -1.276020, -0.413844},
	{-1.022095, 1.978261, 0.043821},
	{0.061203, -0.224411, 1.162859},
}

var ergbToXYZ = [3][3]float64{
	{0.496859, 0.339094, 0.164047},
	{0.256193, 0.678188, 0.065619},
	{0.023290, 0.113031, 0.863978},
}

var xyzToProPhotoRGB = [3][3]float64{
	{1.3459433, -0.2556075, -0.0511118},
	{-0.5445989, 1.5081673, 0.0205351},
	{0.0000000, 0.0000000, 1.2118128},
}

var proPhotoRGBToXYZ = [3][3]float64{
	{0.7976749, 0.1351917, 0.0313534},
	{0.2880402, 0.7118741, 0.0000857},
	{0.0000000, 0.0000000, 0.8252100},
}

var xyzToACES2065_1 = [3][3]float64{
	{1.0498110175, 0.0000000000, -0.0000974845},
	{-0.4959030231, 1.3733130458, 0.0982400361},
	{0.0000000000, 0.0000000000, 0.9912520182},
}

var aces2065_1ToXYZ = [3][3]float64{
	{0.9525523959, 0.0000000000, 0.0000936786},
	{0.3439664498, 0.7281660966, -0.0721325464},
	{0.0000000000, 0.0000000000, 1.0088251844},
}

var xyzToRec2020 = [3][3]float64{
	{1.7166511880, -0.3556707838, -0.2533662814},
	{-0.6666843518, 1.6164812366, 0.0157685458},
	{0.0176398574, -0.0427706133, 0.9421031212},
}

var rec2020ToXYZ = [3][3]float64{
	{0.6369580483, 0.1446169036, 0.1688809752},
	{0.2627002120, 0.6779980715, 0.0593017165},
	{0.0000000000, 0.0280726930, 1.0609850577},
}

var xyzToDCIP3 = [3][3]float64{
	{2.493174800, -0.93126315, -0.402658820},
	{-0.829504250, 1.76269650, 0.023625137},
	{0.035853732, -0.07618918, 0.957095200},
}

var dcip3ToXYZ = [3][3]float64{
	{0.48663378, 0.26566276, 0.198173660},
	{0.22900413, 0.69172573, 0.079269454},
	{0.00000000, 0.04511256, 1.043714500},
}

// matrices returns the gamut's RGB-to-XYZ and XYZ-to-RGB matrix pair.
func (g Gamut) matrices() (rgbToXYZ, xyzToRGB *[3][3]float64) {
	switch g {
	case GamutSRGB:
		return &srgbToXYZ, &xyzToSRGB
	case GamutProPhotoRGB:
		return &proPhotoRGBToXYZ, &xyzToProPhotoRGB
	case GamutACES2065_1:
		return &aces2065_1ToXYZ, &xyzToACES2065_1
	case GamutRec2020:
		return &rec2020ToXYZ, &xyzToRec2020
	case GamutERGB:
		return &ergbToXYZ, &xyzToERGB
	case GamutXYZ:
		return &xyzToXYZ, &xyzToXYZ
	case GamutDCIP3:
		return &dcip3ToXYZ, &xyzToDCIP3
	}
	return &srgbToXYZ, &xyzToSRGB
}

// illuminant returns the gamut's reference illuminant.
func (g Gamut) illuminant() *[cie.Samples]float64 {
	switch g {
	case GamutProPhotoRGB:
		return &cie.D50
	case GamutACES2065_1:
		return &cie.D60
	case GamutERGB, GamutXYZ:
		return &cie.E
	default:
		return &cie.D65
	}
}
