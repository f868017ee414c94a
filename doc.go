// Package optics is a physically based spectral rendering toolkit.
//
// The heart of the module is the spectral color pipeline in
// [github.com/gogpu/optics/spectrum]: RGB reflectance values are converted
// into smooth, physically plausible spectral power distributions by
// fitting a sigmoid-polynomial model against the CIE color-matching
// curves with a Gauss-Newton solver, and the fitted model is baked into a
// lookup table evaluated in O(1) at shading time.
//
// Around that core, [github.com/gogpu/optics/render] provides a CPU
// shading library (film, cameras, BSDFs, lights, a small spectral path
// integrator) and [github.com/gogpu/optics/gpu] provides the wgpu HAL
// engine layer that uploads the spectrum table and evaluates it in a
// compute shader.
//
// This root package carries only cross-cutting concerns, currently the
// shared logger.
package optics
