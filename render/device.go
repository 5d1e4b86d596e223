package render

import "errors"

// Common errors returned by render devices.
var (
	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("render: invalid dimensions")

	// ErrNilTarget is returned when a pass has no render target.
	ErrNilTarget = errors.New("render: nil render target")

	// ErrNilProgram is returned when a pass has no program.
	ErrNilProgram = errors.New("render: nil program")

	// ErrNoEvaluator is returned by the software device when a program
	// source carries no CPU evaluator.
	ErrNoEvaluator = errors.New("render: program has no software evaluator")

	// ErrReadbackNotSupported is returned when a device cannot copy texture
	// contents back to the CPU.
	ErrReadbackNotSupported = errors.New("render: texture readback not supported")

	// ErrTextureReleased is returned when operating on a released resource.
	ErrTextureReleased = errors.New("render: texture has been released")

	// ErrDeviceLost is returned while the device context is lost. The frame
	// is discarded; the caller must Restore and reallocate resources.
	ErrDeviceLost = errors.New("render: device lost")

	// ErrFeedbackHazard is returned by a device asked to sample the texture
	// it is currently rendering into. The Engine normally skips such passes
	// before they reach the device.
	ErrFeedbackHazard = errors.New("render: input texture is the active render target")
)

// Texture is a device-owned 2D texture that nodes sample from.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int

	// Label returns the debug label.
	Label() string

	// Release frees the texture. Release is idempotent; a released texture
	// must never be sampled.
	Release()
}

// Target is a render destination: a texture plus whatever attachment state
// the device needs to draw into it.
type Target interface {
	// Texture returns the color texture the target draws into.
	Texture() Texture

	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Release frees the target and its texture. Idempotent.
	Release()
}

// ProgramSource describes a node program for both device paths.
// WGSL feeds the GPU device (compiled through naga); Eval feeds the
// software device. A source may carry either or both.
type ProgramSource struct {
	// Label is a debug name, typically the node kind name.
	Label string

	// WGSL is the fragment shader source for the GPU path.
	WGSL string

	// Eval is the per-pixel evaluator for the software path.
	Eval EvalFunc
}

// Program is a compiled node program, opaque to the caller.
type Program interface {
	// Label returns the debug name the program was created with.
	Label() string
}

// Pass describes one full-frame quad draw into a node's render target.
//
// Textures is indexed by texture unit. The Engine guarantees unit i holds
// the texture for input slot i and that the sampler uniform for slot i
// carries the integer i.
type Pass struct {
	// Target is the destination. Never nil for a pass handed to a device.
	Target Target

	// Program is the node program. Never nil for a pass handed to a device.
	Program Program

	// Uniforms holds every uniform for this pass, keyed by uniform name
	// (see UniformName and SamplerName). Names the program does not declare
	// are silently ignored by the device.
	Uniforms map[string]Uniform

	// Textures holds the bound texture per unit. A nil entry is an unbound
	// unit; sampling it yields transparent black.
	Textures []Texture

	// Time is the elapsed time in seconds, written as the universal
	// u_time uniform.
	Time float64
}

// Device abstracts the GPU for the render engine. Implementations:
// SoftwareDevice (this package) and gpu.Device.
//
// Devices are driven from the single frame-loop goroutine; they are not
// required to be safe for concurrent use.
type Device interface {
	// Name returns the device identifier ("software", "wgpu").
	Name() string

	// NewTarget allocates a texture of the given size and a render target
	// drawing into it, verifying attachment completeness. On error no
	// resources are committed.
	NewTarget(width, height int, label string) (Target, error)

	// NewTexture creates an immutable texture from RGBA pixel data
	// (4 bytes per pixel, row-major). Used for the shared fallback texture.
	NewTexture(width, height int, pix []byte, label string) (Texture, error)

	// NewProgram compiles a program from source. A compilation failure is
	// reported here so the caller can substitute the fallback program.
	NewProgram(src ProgramSource) (Program, error)

	// Render draws one full-frame quad as described by the pass.
	Render(p *Pass) error

	// Blit copies src into dst, scaling if the sizes differ. Used by the
	// compositor to present the output texture.
	Blit(src Texture, dst Target) error

	// ReadPixels copies a texture back to the CPU as RGBA bytes.
	// GPU devices may return ErrReadbackNotSupported.
	ReadPixels(t Texture) ([]byte, error)

	// Lost reports whether the device context is lost. While lost, all
	// resources created by the device are invalid.
	Lost() bool

	// Restore re-establishes the device after context loss. Resources
	// created before the loss remain invalid and must be reallocated.
	Restore() error
}
