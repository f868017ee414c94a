// Package gpu offloads batch RGB-to-spectrum lookups onto a compute
// device through wgpu/hal. The accelerator owns a Vulkan device by
// default and can be switched onto a shared device from a host
// application via SetDeviceProvider.
package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/optics"
	"github.com/gogpu/optics/spectrum"
)

const lookupWorkgroupSize = 64

// LookupAccelerator resolves batches of RGB triples to sigmoid
// polynomial coefficients on the GPU. When no device is available every
// batch falls back to the CPU table lookup, so callers never need to
// special-case the GPU being absent.
type LookupAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	// Table currently resident on the device.
	table    *spectrum.Table
	zBuf     hal.Buffer
	coeffBuf hal.Buffer

	ready          bool
	externalDevice bool
}

// Init brings up the GPU device and pipeline. A failed init is not an
// error: the accelerator stays in CPU fallback mode.
func (a *LookupAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		optics.Logger().Warn("gpu: init failed, using CPU fallback", "err", err)
	}
	return nil
}

// Ready reports whether batches run on the GPU.
func (a *LookupAccelerator) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ready
}

// Close releases all GPU resources. Shared devices installed through
// SetDeviceProvider are not destroyed.
func (a *LookupAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.releaseTableLocked()
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.instance = nil
	a.device = nil
	a.queue = nil
	a.ready = false
	a.externalDevice = false
}

// SetDeviceProvider switches the accelerator onto a shared GPU device
// from a host application. The provider must implement HalDevice() any
// and HalQueue() any returning hal.Device and hal.Queue.
func (a *LookupAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.releaseTableLocked()
	a.destroyPipelines()
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	a.device = device
	a.queue = queue
	a.externalDevice = true

	if err := a.createPipelines(); err != nil {
		a.ready = false
		return fmt.Errorf("gpu: create pipelines with shared device: %w", err)
	}
	a.ready = true
	optics.Logger().Info("gpu: switched to shared device")
	return nil
}

func (a *LookupAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue

	if err := a.createPipelines(); err != nil {
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		return fmt.Errorf("create pipelines: %w", err)
	}
	a.ready = true
	optics.Logger().Info("gpu: accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *LookupAccelerator) createPipelines() error {
	spirvBytes, err := naga.Compile(lookupShaderSource)
	if err != nil {
		return fmt.Errorf("compile lookup shader: %w", err)
	}
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}

	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "spectrum_lookup",
		Source: hal.ShaderSource{SPIRV: spirvCode},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	a.shader = shader

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "spectrum_lookup_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 3, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 4, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "spectrum_lookup_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "spectrum_lookup_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: a.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	a.pipeline = pipeline

	return nil
}

func (a *LookupAccelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	if a.pipeline != nil {
		a.device.DestroyComputePipeline(a.pipeline)
		a.pipeline = nil
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
	if a.shader != nil {
		a.device.DestroyShaderModule(a.shader)
		a.shader = nil
	}
}

// UploadTable makes table resident on the device. Subsequent LookupBatch
// calls resolve against it. Uploading replaces any previous table.
func (a *LookupAccelerator) UploadTable(table *spectrum.Table) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.ready {
		// CPU fallback keeps a reference for Lookup.
		a.table = table
		return nil
	}

	a.releaseTableLocked()

	zBytes := packFloats(table.ZNodes)
	coeffBytes := packFloats(table.Coefficients)

	zBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "spectrum_z_nodes", Size: uint64(len(zBytes)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create z-node buffer: %w", err)
	}
	coeffBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "spectrum_coefficients", Size: uint64(len(coeffBytes)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		a.device.DestroyBuffer(zBuf)
		return fmt.Errorf("gpu: create coefficient buffer: %w", err)
	}

	a.queue.WriteBuffer(zBuf, 0, zBytes)
	a.queue.WriteBuffer(coeffBuf, 0, coeffBytes)

	a.table = table
	a.zBuf = zBuf
	a.coeffBuf = coeffBuf
	return nil
}

func (a *LookupAccelerator) releaseTableLocked() {
	if a.device != nil {
		if a.zBuf != nil {
			a.device.DestroyBuffer(a.zBuf)
		}
		if a.coeffBuf != nil {
			a.device.DestroyBuffer(a.coeffBuf)
		}
	}
	a.zBuf = nil
	a.coeffBuf = nil
	a.table = nil
}

// LookupBatch resolves every RGB triple to its sigmoid polynomial. A
// table must have been uploaded first. Without a GPU the batch runs on
// the CPU table.
func (a *LookupAccelerator) LookupBatch(rgb [][3]float32) ([]spectrum.SigmoidPolynomial, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.table == nil {
		return nil, fmt.Errorf("gpu: no table uploaded")
	}
	if len(rgb) == 0 {
		return nil, nil
	}
	if !a.ready {
		return a.lookupCPU(rgb)
	}
	out, err := a.dispatch(rgb)
	if err != nil {
		optics.Logger().Warn("gpu: batch dispatch failed, falling back to CPU", "err", err)
		return a.lookupCPU(rgb)
	}
	return out, nil
}

func (a *LookupAccelerator) lookupCPU(rgb [][3]float32) ([]spectrum.SigmoidPolynomial, error) {
	out := make([]spectrum.SigmoidPolynomial, len(rgb))
	for i, c := range rgb {
		p, err := a.table.Lookup(c)
		if err != nil {
			return nil, fmt.Errorf("gpu: entry %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

func (a *LookupAccelerator) dispatch(rgb [][3]float32) ([]spectrum.SigmoidPolynomial, error) {
	n := len(rgb)
	inBytes := make([]byte, 12*n)
	for i, c := range rgb {
		for j := 0; j < 3; j++ {
			binary.LittleEndian.PutUint32(inBytes[12*i+4*j:], math.Float32bits(c[j]))
		}
	}
	outSize := uint64(12 * n)

	params := make([]byte, 16)
	binary.LittleEndian.PutUint32(params[0:], uint32(a.table.Res))
	binary.LittleEndian.PutUint32(params[4:], uint32(n))

	paramBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "spectrum_params", Size: uint64(len(params)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create params buffer: %w", err)
	}
	defer a.device.DestroyBuffer(paramBuf)

	inBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "spectrum_input", Size: uint64(len(inBytes)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create input buffer: %w", err)
	}
	defer a.device.DestroyBuffer(inBuf)

	outBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "spectrum_output", Size: outSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create output buffer: %w", err)
	}
	defer a.device.DestroyBuffer(outBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "spectrum_staging", Size: outSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	a.queue.WriteBuffer(paramBuf, 0, params)
	a.queue.WriteBuffer(inBuf, 0, inBytes)

	bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "spectrum_lookup_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramBuf.NativeHandle(), Offset: 0, Size: uint64(len(params))}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: a.zBuf.NativeHandle(), Offset: 0, Size: uint64(4 * a.table.Res)}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: a.coeffBuf.NativeHandle(), Offset: 0, Size: uint64(4 * len(a.table.Coefficients))}},
			{Binding: 3, Resource: gputypes.BufferBinding{Buffer: inBuf.NativeHandle(), Offset: 0, Size: uint64(len(inBytes))}},
			{Binding: 4, Resource: gputypes.BufferBinding{Buffer: outBuf.NativeHandle(), Offset: 0, Size: outSize}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bg)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "spectrum_lookup_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("spectrum_lookup"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "spectrum_lookup_pass"})
	pass.SetPipeline(a.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch((uint32(n)+lookupWorkgroupSize-1)/lookupWorkgroupSize, 1, 1)
	pass.End()

	encoder.CopyBufferToBuffer(outBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: outSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return nil, fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, outSize)
	if err := a.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	out := make([]spectrum.SigmoidPolynomial, n)
	for i := range out {
		out[i] = spectrum.SigmoidPolynomial{
			C2: math.Float32frombits(binary.LittleEndian.Uint32(readback[12*i:])),
			C1: math.Float32frombits(binary.LittleEndian.Uint32(readback[12*i+4:])),
			C0: math.Float32frombits(binary.LittleEndian.Uint32(readback[12*i+8:])),
		}
	}
	return out, nil
}

func packFloats(v []float32) []byte {
	out := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(f))
	}
	return out
}
