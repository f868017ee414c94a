package render

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/optics"
	"github.com/gogpu/optics/internal/parallel"
	"github.com/gogpu/optics/spectrum"
)

const tileSize = 32

// Config holds the integrator settings. Zero values are replaced by
// defaults in Validate.
type Config struct {
	SamplesPerPixel int
	MaxDepth        int
	Seed            uint64
	Workers         int
}

// Validate fills in defaults and rejects invalid settings.
func (c *Config) Validate() error {
	if c.SamplesPerPixel == 0 {
		c.SamplesPerPixel = 16
	}
	if c.SamplesPerPixel < 0 {
		return fmt.Errorf("render: samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = 8
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("render: max depth must be positive, got %d", c.MaxDepth)
	}
	return nil
}

// Integrator renders a scene onto a film with a spectral path tracer.
type Integrator struct {
	Scene  *Scene
	Camera *PerspectiveCamera
	Film   *Film
	Config Config
}

type tileSample struct {
	fx, fy float64
	l      spectrum.SampledSpectrum
	wl     spectrum.SampledWavelengths
}

// Render traces Config.SamplesPerPixel paths per pixel, fanning the film
// tiles out across a worker pool. Rendering stops early when ctx is
// canceled; the film then holds the tiles finished so far.
func (in *Integrator) Render(ctx context.Context) error {
	if err := in.Config.Validate(); err != nil {
		return err
	}

	w, h := in.Film.Width, in.Film.Height
	tilesX := (w + tileSize - 1) / tileSize
	tilesY := (h + tileSize - 1) / tileSize
	numTiles := tilesX * tilesY

	optics.Logger().Info("render: start",
		"width", w, "height", h,
		"spp", in.Config.SamplesPerPixel, "depth", in.Config.MaxDepth,
		"tiles", numTiles)
	start := time.Now()

	pool := parallel.NewWorkerPool(in.Config.Workers)
	defer pool.Close()

	var splatMu sync.Mutex
	var done atomic.Int64

	pool.For(numTiles, func(tile int) {
		if ctx.Err() != nil {
			return
		}

		tx, ty := tile%tilesX, tile/tilesX
		x0, y0 := tx*tileSize, ty*tileSize
		x1, y1 := min(x0+tileSize, w), min(y0+tileSize, h)

		rng := rand.New(rand.NewPCG(in.Config.Seed, uint64(tile)))
		samples := in.renderTile(rng, x0, y0, x1, y1)

		splatMu.Lock()
		for _, s := range samples {
			in.Film.AddSample(s.fx, s.fy, s.l, s.wl)
		}
		splatMu.Unlock()

		if n := done.Add(1); n%64 == 0 || n == int64(numTiles) {
			optics.Logger().Debug("render: progress", "tiles", n, "of", numTiles)
		}
	})

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("render: canceled: %w", err)
	}

	optics.Logger().Info("render: done", "elapsed", time.Since(start))
	return nil
}

func (in *Integrator) renderTile(rng *rand.Rand, x0, y0, x1, y1 int) []tileSample {
	spp := in.Config.SamplesPerPixel
	samples := make([]tileSample, 0, (x1-x0)*(y1-y0)*spp)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			for s := 0; s < spp; s++ {
				fx := float64(x) + rng.Float64()
				fy := float64(y) + rng.Float64()

				// Film y grows downward, camera t upward.
				u := fx / float64(in.Film.Width)
				v := 1 - fy/float64(in.Film.Height)

				wl := spectrum.SampleUniformWavelengths(rng.Float32())
				l := in.tracePath(in.Camera.GenerateRay(u, v), wl, rng)
				samples = append(samples, tileSample{fx: fx, fy: fy, l: l, wl: wl})
			}
		}
	}

	return samples
}

// tracePath traces one spectral path and returns the incident radiance.
func (in *Integrator) tracePath(ray Ray, wl spectrum.SampledWavelengths, rng *rand.Rand) spectrum.SampledSpectrum {
	var l spectrum.SampledSpectrum
	throughput := spectrum.SampledSpectrum{1, 1, 1, 1}

	for depth := 0; depth < in.Config.MaxDepth; depth++ {
		hit, ok := in.Scene.Intersect(ray, 1e-4, 1e30)
		if !ok {
			l = l.Add(throughput.Mul(in.Scene.Light.Le(wl)))
			break
		}

		if hit.Mat.Kind == MaterialDiffuse {
			l = l.Add(throughput.Mul(in.directLight(hit, wl)))
		}

		res, ok := hit.Mat.Scatter(ray.Dir.Neg(), hit.N, wl, rng.Float64(), rng.Float64(), rng.Float64())
		if !ok {
			break
		}
		throughput = throughput.Mul(res.Weight)

		// Russian roulette after a few bounces.
		if depth > 3 {
			q := float64(throughput.MaxComponent())
			if q < 1 {
				if rng.Float64() >= q {
					break
				}
				throughput = throughput.Scale(float32(1 / q))
			}
		}

		ray = Ray{Origin: hit.P, Dir: res.Dir.Normalize()}
	}

	return l
}

// directLight accumulates the point lights' contribution at a diffuse
// hit: Lambertian BRDF times the geometric term, with a shadow ray per
// light.
func (in *Integrator) directLight(hit Intersection, wl spectrum.SampledWavelengths) spectrum.SampledSpectrum {
	var sum spectrum.SampledSpectrum

	for i := range in.Scene.Points {
		light := &in.Scene.Points[i]
		toLight := light.Position.Sub(hit.P)
		dist2 := toLight.Dot(toLight)
		if dist2 == 0 {
			continue
		}
		wi := toLight.Scale(1 / math.Sqrt(dist2))
		cos := wi.Dot(hit.N)
		if cos <= 0 || in.Scene.Occluded(hit.P, light.Position) {
			continue
		}

		g := float32(cos / (math.Pi * dist2))
		brdf := hit.Mat.Reflectance.Sample(wl)
		sum = sum.Add(light.Intensity(wl).Mul(brdf).Scale(g))
	}

	return sum
}
