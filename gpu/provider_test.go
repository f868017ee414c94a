package gpu

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider without exposing HAL
// types, so handing it to the accelerator must fail cleanly.
type mockProvider struct{}

func (m *mockProvider) Device() gpucontext.Device   { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue     { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{} }

func TestDefaultSingleton(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() should return the same accelerator")
	}
}

func TestSetAcceleratorDeviceProvider(t *testing.T) {
	if err := SetAcceleratorDeviceProvider(nil); err != ErrNilProvider {
		t.Errorf("nil provider: got %v, want ErrNilProvider", err)
	}

	// A plain gpucontext provider carries no HAL handles.
	if err := SetAcceleratorDeviceProvider(&mockProvider{}); err == nil {
		t.Error("provider without HAL accessors should be rejected")
	}
}
