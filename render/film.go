package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/tiff"

	"github.com/gogpu/optics/spectrum"
)

// PixelSensor converts sampled spectral radiance to the film's RGB color
// space, applying chromatic adaptation from the scene illuminant's
// whitepoint to the output space's whitepoint.
type PixelSensor struct {
	space        *spectrum.RGBColorSpace
	whiteBalance spectrum.Mat3
	imagingRatio float64
}

// NewPixelSensor builds a sensor targeting the given color space. The
// source whitepoint is where the scene illuminant sits; pass the space's
// own whitepoint for a neutral sensor.
func NewPixelSensor(space *spectrum.RGBColorSpace, srcWhite [2]float64, imagingRatio float64) *PixelSensor {
	return &PixelSensor{
		space:        space,
		whiteBalance: spectrum.WhiteBalance(srcWhite, space.W),
		imagingRatio: imagingRatio,
	}
}

// ToSensorRGB converts one spectral sample to the sensor's RGB.
func (s *PixelSensor) ToSensorRGB(l spectrum.SampledSpectrum, wl spectrum.SampledWavelengths) [3]float64 {
	xyz32 := l.ToXYZ(wl)
	xyz := [3]float64{float64(xyz32[0]), float64(xyz32[1]), float64(xyz32[2])}
	xyz = s.whiteBalance.MulVec(xyz)
	rgb := s.space.ToRGB(xyz)
	for j := range rgb {
		rgb[j] *= s.imagingRatio
	}
	return rgb
}

type filmPixel struct {
	rgb    [3]float64
	weight float64
}

// Film accumulates filtered RGB samples per pixel and resolves them to an
// 8-bit PNG or a 16-bit TIFF.
type Film struct {
	Width, Height int

	sensor *PixelSensor
	filter Filter
	pixels []filmPixel
}

// NewFilm creates a film of the given resolution.
func NewFilm(width, height int, sensor *PixelSensor, filter Filter) (*Film, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: invalid film size %dx%d", width, height)
	}
	return &Film{
		Width:  width,
		Height: height,
		sensor: sensor,
		filter: filter,
		pixels: make([]filmPixel, width*height),
	}, nil
}

// AddSample splats one spectral sample taken at the continuous film
// position (fx, fy) onto all pixels whose filter support covers it.
//
// AddSample is not safe for concurrent use. The integrator batches the
// samples of each tile and serializes the splat phase.
func (f *Film) AddSample(fx, fy float64, l spectrum.SampledSpectrum, wl spectrum.SampledWavelengths) {
	rgb := f.sensor.ToSensorRGB(l, wl)

	r := f.filter.Radius()
	x0 := int(math.Ceil(fx - 0.5 - r))
	x1 := int(math.Floor(fx - 0.5 + r))
	y0 := int(math.Ceil(fy - 0.5 - r))
	y1 := int(math.Floor(fy - 0.5 + r))

	for y := max(y0, 0); y <= min(y1, f.Height-1); y++ {
		for x := max(x0, 0); x <= min(x1, f.Width-1); x++ {
			w := f.filter.Eval(float64(x)+0.5-fx, float64(y)+0.5-fy)
			if w == 0 {
				continue
			}
			px := &f.pixels[y*f.Width+x]
			for j := 0; j < 3; j++ {
				px.rgb[j] += w * rgb[j]
			}
			px.weight += w
		}
	}
}

// resolve returns the weighted pixel value clamped to [0, 1] after sRGB
// encoding.
func (f *Film) resolve(x, y int) [3]float64 {
	px := f.pixels[y*f.Width+x]
	var out [3]float64
	if px.weight == 0 {
		return out
	}
	for j := 0; j < 3; j++ {
		out[j] = float64(spectrum.LinearToSRGB(float32(px.rgb[j] / px.weight)))
	}
	return out
}

// WritePNG encodes the film as an 8-bit sRGB PNG.
func (f *Film) WritePNG(w io.Writer) error {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			rgb := f.resolve(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(math.Round(rgb[0] * 255)),
				G: uint8(math.Round(rgb[1] * 255)),
				B: uint8(math.Round(rgb[2] * 255)),
				A: 255,
			})
		}
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// WriteTIFF encodes the film as a 16-bit sRGB TIFF with deflate
// compression.
func (f *Film) WriteTIFF(w io.Writer) error {
	img := image.NewNRGBA64(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			rgb := f.resolve(x, y)
			img.SetNRGBA64(x, y, color.NRGBA64{
				R: uint16(math.Round(rgb[0] * 65535)),
				G: uint16(math.Round(rgb[1] * 65535)),
				B: uint16(math.Round(rgb[2] * 65535)),
				A: 65535,
			})
		}
	}
	opts := &tiff.Options{Compression: tiff.Deflate, Predictor: true}
	if err := tiff.Encode(w, img, opts); err != nil {
		return fmt.Errorf("render: encode tiff: %w", err)
	}
	return nil
}
