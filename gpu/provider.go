package gpu

import (
	"errors"
	"sync"

	"github.com/gogpu/gpucontext"
)

// ErrNilProvider is returned when a nil DeviceProvider is passed.
var ErrNilProvider = errors.New("gpu: nil DeviceProvider")

var (
	defaultMu    sync.Mutex
	defaultAccel *LookupAccelerator
)

// Default returns the process-wide lookup accelerator, creating it on
// first use. The accelerator is not initialized; call Init to bring up a
// dedicated device, or SetAcceleratorDeviceProvider to share one.
func Default() *LookupAccelerator {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultAccel == nil {
		defaultAccel = &LookupAccelerator{}
	}
	return defaultAccel
}

// SetAcceleratorDeviceProvider points the default accelerator at a shared
// GPU device from a host application. The provider must additionally
// expose HAL types via HalDevice() any and HalQueue() any; a provider
// without them is reported as an error and the accelerator keeps its
// current device.
func SetAcceleratorDeviceProvider(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		return ErrNilProvider
	}
	return Default().SetDeviceProvider(provider)
}
