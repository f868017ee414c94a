// Command opticsdemo renders a small spectral path-traced scene: diffuse
// spheres with table-derived reflectance spectra, a glass sphere and a
// D65 environment, written as PNG or 16-bit TIFF.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gogpu/optics"
	"github.com/gogpu/optics/render"
	"github.com/gogpu/optics/spectrum"
)

func main() {
	var (
		width   = flag.Int("width", 640, "image width")
		height  = flag.Int("height", 480, "image height")
		spp     = flag.Int("spp", 64, "samples per pixel")
		depth   = flag.Int("depth", 8, "maximum path depth")
		res     = flag.Int("res", 32, "spectrum table resolution")
		seed    = flag.Uint64("seed", 1, "random seed")
		output  = flag.String("output", "demo.png", "output file (.png or .tif)")
		verbose = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	optics.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	table, err := spectrum.GenerateTable(spectrum.GamutSRGB, *res)
	if err != nil {
		log.Fatalf("Generate table: %v", err)
	}
	log.Printf("Spectrum table ready in %s", time.Since(start).Round(time.Millisecond))

	scene, err := buildScene(table)
	if err != nil {
		log.Fatalf("Build scene: %v", err)
	}

	sensor := render.NewPixelSensor(spectrum.SRGBColorSpace, spectrum.SRGBColorSpace.W, 1)
	film, err := render.NewFilm(*width, *height, sensor, render.NewGaussianFilter(1.5, 0.5))
	if err != nil {
		log.Fatalf("Create film: %v", err)
	}

	in := &render.Integrator{
		Scene: scene,
		Camera: render.NewPerspectiveCamera(
			render.Vec3{X: 0, Y: 1, Z: 4},
			render.Vec3{X: 0, Y: 0.5, Z: 0},
			render.Vec3{X: 0, Y: 1, Z: 0},
			40, float64(*width)/float64(*height)),
		Film:   film,
		Config: render.Config{SamplesPerPixel: *spp, MaxDepth: *depth, Seed: *seed},
	}
	if err := in.Render(ctx); err != nil {
		log.Fatalf("Render: %v", err)
	}

	if err := writeImage(film, *output); err != nil {
		log.Fatalf("Save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d, %d spp)", *output, *width, *height, *spp)
}

func buildScene(table *spectrum.Table) (*render.Scene, error) {
	lookup := func(r, g, b float32) (spectrum.SigmoidPolynomial, error) {
		return table.Lookup([3]float32{r, g, b})
	}

	red, err := lookup(0.65, 0.1, 0.08)
	if err != nil {
		return nil, err
	}
	green, err := lookup(0.12, 0.55, 0.15)
	if err != nil {
		return nil, err
	}
	blue, err := lookup(0.1, 0.2, 0.7)
	if err != nil {
		return nil, err
	}
	gray, err := lookup(0.6, 0.6, 0.6)
	if err != nil {
		return nil, err
	}

	return &render.Scene{
		Spheres: []render.Sphere{
			{Center: render.Vec3{X: -1.4, Y: 0.5, Z: 0}, Radius: 0.5,
				Mat: &render.Material{Kind: render.MaterialDiffuse, Reflectance: red}},
			{Center: render.Vec3{X: 0, Y: 0.5, Z: 0}, Radius: 0.5,
				Mat: &render.Material{Kind: render.MaterialDielectric, IOR: 1.5}},
			{Center: render.Vec3{X: 1.4, Y: 0.5, Z: 0}, Radius: 0.5,
				Mat: &render.Material{Kind: render.MaterialDiffuse, Reflectance: green}},
			{Center: render.Vec3{X: 0, Y: 0.35, Z: 1.3}, Radius: 0.35,
				Mat: &render.Material{Kind: render.MaterialDiffuse, Reflectance: blue}},
		},
		Planes: []render.Plane{
			{Point: render.Vec3{}, Normal: render.Vec3{X: 0, Y: 1, Z: 0},
				Mat: &render.Material{Kind: render.MaterialDiffuse, Reflectance: gray}},
		},
		Points: []render.PointLight{
			{Position: render.Vec3{X: 3, Y: 4, Z: 3}, Spectrum: spectrum.IlluminantD65, Scale: 30},
		},
		Light: &render.UniformInfiniteLight{Spectrum: spectrum.IlluminantD65, Scale: 0.4},
	}, nil
}

func writeImage(film *render.Film, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".tif", ".tiff":
		err = film.WriteTIFF(f)
	default:
		err = film.WritePNG(f)
	}
	if err != nil {
		return err
	}
	return f.Close()
}
