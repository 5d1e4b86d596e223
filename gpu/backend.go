package gpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/vgraph/internal/vlog"
)

// Errors returned by backend initialization.
var (
	// ErrNoGPU is returned when no suitable GPU adapter is available.
	ErrNoGPU = errors.New("gpu: no suitable GPU adapter found")

	// ErrNotInitialized is returned when using a backend before Init.
	ErrNotInitialized = errors.New("gpu: backend not initialized")

	// ErrNilProvider is returned when adopting a nil device provider.
	ErrNilProvider = errors.New("gpu: nil device provider")
)

// backend owns the wgpu resource chain. When a device provider is
// adopted instead, the chain stays zero and the shared handles are used
// for queue submission. The queue handle is retrieved eagerly and held
// for texture upload and pass submission; while rasterization runs on
// the CPU mirror nothing is submitted to it yet.
type backend struct {
	mu sync.Mutex

	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID

	// shared is set when the device was adopted from a host rather than
	// created here. Adopted handles are never released by Close.
	shared gpucontext.DeviceProvider

	initialized bool
}

// init creates the wgpu instance, requests an adapter, creates the
// logical device and retrieves its queue.
func (b *backend) init(power gputypes.PowerPreference, label string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	desc := &gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
		Flags:    0,
	}
	b.instance = core.NewInstance(desc)

	adapterID, err := b.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: power,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	b.adapter = adapterID

	if info, err := core.GetAdapterInfo(adapterID); err == nil {
		vlog.Logger().Info("gpu adapter selected",
			"name", info.Name,
			"type", info.DeviceType.String(),
			"backend", info.Backend.String())
	}

	deviceID, err := core.RequestDevice(adapterID, &gputypes.DeviceDescriptor{
		Label:            label,
		RequiredFeatures: nil,
		RequiredLimits:   gputypes.DefaultLimits(),
	})
	if err != nil {
		_ = core.AdapterDrop(adapterID)
		b.adapter = core.AdapterID{}
		return fmt.Errorf("gpu: device creation failed: %w", err)
	}
	b.device = deviceID

	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		_ = core.DeviceDrop(deviceID)
		_ = core.AdapterDrop(adapterID)
		b.device = core.DeviceID{}
		b.adapter = core.AdapterID{}
		return fmt.Errorf("gpu: queue retrieval failed: %w", err)
	}
	b.queue = queueID

	b.initialized = true
	return nil
}

// adopt takes the host's shared device instead of creating one. The
// host keeps ownership; close never releases adopted handles.
func (b *backend) adopt(p gpucontext.DeviceProvider) error {
	if p == nil {
		return ErrNilProvider
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	b.shared = p
	b.initialized = true
	vlog.Logger().Info("adopted shared GPU device from host")
	return nil
}

// close releases owned resources in reverse order of creation. The
// queue is released with the device.
func (b *backend) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}

	if b.shared == nil {
		if !b.device.IsZero() {
			if err := core.DeviceDrop(b.device); err != nil {
				vlog.Logger().Warn("device release failed", "err", err)
			}
		}
		if !b.adapter.IsZero() {
			if err := core.AdapterDrop(b.adapter); err != nil {
				vlog.Logger().Warn("adapter release failed", "err", err)
			}
		}
	}

	b.instance = nil
	b.adapter = core.AdapterID{}
	b.device = core.DeviceID{}
	b.queue = core.QueueID{}
	b.shared = nil
	b.initialized = false
}
