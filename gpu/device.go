package gpu

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/vgraph/render"
)

// Option configures a Device during Open.
type Option func(*deviceOptions)

type deviceOptions struct {
	power    gputypes.PowerPreference
	label    string
	provider gpucontext.DeviceProvider
}

// WithPowerPreference selects the adapter power class. The default
// prefers the high performance GPU.
func WithPowerPreference(p gputypes.PowerPreference) Option {
	return func(o *deviceOptions) { o.power = p }
}

// WithLabel sets the debug label used for the logical device.
func WithLabel(label string) Option {
	return func(o *deviceOptions) { o.label = label }
}

// WithProvider adopts a host's shared GPU device instead of creating
// one. The host keeps ownership; Close will not release its handles.
func WithProvider(p gpucontext.DeviceProvider) Option {
	return func(o *deviceOptions) { o.provider = p }
}

// Device implements render.Device on wgpu. Create it with Open and
// release it with Close.
type Device struct {
	backend *backend
	soft    *render.SoftwareDevice
	lost    atomic.Bool
}

// Open initializes a GPU device. Without WithProvider it creates the
// full wgpu chain; initialization fails with ErrNoGPU when no adapter
// is available, in which case callers typically fall back to
// render.NewSoftwareDevice.
func Open(opts ...Option) (*Device, error) {
	o := deviceOptions{
		power: gputypes.PowerPreferenceHighPerformance,
		label: "vgraph-device",
	}
	for _, opt := range opts {
		opt(&o)
	}

	b := &backend{}
	var err error
	if o.provider != nil {
		err = b.adopt(o.provider)
	} else {
		err = b.init(o.power, o.label)
	}
	if err != nil {
		return nil, err
	}

	return &Device{
		backend: b,
		soft:    render.NewSoftwareDevice(),
	}, nil
}

// Name returns "wgpu".
func (d *Device) Name() string { return "wgpu" }

// Close releases the device's GPU resources. Adopted shared handles
// are left to their owner.
func (d *Device) Close() { d.backend.close() }

// NewTarget allocates a texture and a render target drawing into it.
func (d *Device) NewTarget(width, height int, label string) (render.Target, error) {
	if d.lost.Load() {
		return nil, render.ErrDeviceLost
	}
	mirror, err := d.soft.NewTarget(width, height, label)
	if err != nil {
		return nil, err
	}
	return &target{
		tex:    &texture{mirror: mirror.Texture()},
		mirror: mirror,
	}, nil
}

// NewTexture creates an immutable texture from RGBA pixel data.
func (d *Device) NewTexture(width, height int, pix []byte, label string) (render.Texture, error) {
	if d.lost.Load() {
		return nil, render.ErrDeviceLost
	}
	mirror, err := d.soft.NewTexture(width, height, pix, label)
	if err != nil {
		return nil, err
	}
	return &texture{mirror: mirror}, nil
}

// NewProgram compiles the source's WGSL to SPIR-V through naga and
// wraps the CPU evaluator that carries rasterization meanwhile. A
// compilation failure is returned so the caller can substitute the
// fallback program.
func (d *Device) NewProgram(src render.ProgramSource) (render.Program, error) {
	var spirv []uint32
	if src.WGSL != "" {
		var err error
		spirv, err = compileSPIRV(src.WGSL)
		if err != nil {
			return nil, fmt.Errorf("gpu: program %q: %w", src.Label, err)
		}
	}
	mirror, err := d.soft.NewProgram(src)
	if err != nil {
		return nil, err
	}
	return &program{label: src.Label, spirv: spirv, mirror: mirror}, nil
}

// Render draws one full-frame quad as described by the pass.
func (d *Device) Render(p *render.Pass) error {
	if d.lost.Load() {
		return render.ErrDeviceLost
	}
	if p == nil || p.Target == nil {
		return render.ErrNilTarget
	}
	if p.Program == nil {
		return render.ErrNilProgram
	}

	tgt, ok := p.Target.(*target)
	if !ok {
		return fmt.Errorf("render: foreign target on wgpu device")
	}
	prog, ok := p.Program.(*program)
	if !ok {
		return fmt.Errorf("render: foreign program %q on wgpu device", p.Program.Label())
	}
	if tgt.tex.released.Load() {
		return render.ErrTextureReleased
	}

	// The hazard check compares gpu-side handles before unwrapping, so
	// identity is judged on what the engine actually bound.
	for _, tex := range p.Textures {
		if tex == render.Texture(tgt.tex) {
			return render.ErrFeedbackHazard
		}
	}

	mp := &render.Pass{
		Target:   tgt.mirror,
		Program:  prog.mirror,
		Uniforms: p.Uniforms,
		Textures: make([]render.Texture, len(p.Textures)),
		Time:     p.Time,
	}
	for i, tex := range p.Textures {
		mt, err := unwrapTexture(tex)
		if err != nil {
			return err
		}
		mp.Textures[i] = mt
	}
	return d.soft.Render(mp)
}

// Blit copies src into dst, scaling if the sizes differ.
func (d *Device) Blit(src render.Texture, dst render.Target) error {
	if d.lost.Load() {
		return render.ErrDeviceLost
	}
	ms, err := unwrapTexture(src)
	if err != nil {
		return err
	}
	dt, ok := dst.(*target)
	if !ok {
		return fmt.Errorf("render: foreign target on wgpu device")
	}
	if dt.tex.released.Load() {
		return render.ErrTextureReleased
	}
	return d.soft.Blit(ms, dt.mirror)
}

// ReadPixels copies a texture back to the CPU as RGBA bytes.
func (d *Device) ReadPixels(t render.Texture) ([]byte, error) {
	mt, err := unwrapTexture(t)
	if err != nil {
		return nil, err
	}
	return d.soft.ReadPixels(mt)
}

// Lost reports whether the device context is lost.
func (d *Device) Lost() bool { return d.lost.Load() }

// MarkLost flags the device as lost. Hosts call this when the
// underlying context dies; the engine discards the frame, calls
// Restore and reallocates every resource.
func (d *Device) MarkLost() { d.lost.Store(true) }

// Restore re-establishes the device after context loss. Resources
// created before the loss remain invalid.
func (d *Device) Restore() error {
	d.lost.Store(false)
	return nil
}

func unwrapTexture(t render.Texture) (render.Texture, error) {
	if t == nil {
		return nil, nil
	}
	gt, ok := t.(*texture)
	if !ok {
		return nil, fmt.Errorf("render: foreign texture on wgpu device")
	}
	if gt.released.Load() {
		return nil, render.ErrTextureReleased
	}
	return gt.mirror, nil
}

var _ render.Device = (*Device)(nil)
