package render

import (
	"fmt"
	"image"
	"sync/atomic"

	"golang.org/x/image/draw"
)

// EvalFunc is a per-pixel program evaluator for the software device.
// It receives the pass environment and the fragment coordinates and
// returns an RGBA color with components in [0, 1].
type EvalFunc func(env *EvalEnv, x, y int) (r, g, b, a float64)

// EvalEnv gives a software evaluator access to the pass state: uniforms,
// bound textures and the universal time/resolution values.
//
// Texture access goes through Sample, which resolves the slot's sampler
// uniform to a unit and reads the texture bound to that unit. Evaluators
// therefore observe exactly the binding the engine produced; a binding
// defect that aliases two samplers to one unit is visible in the output.
type EvalEnv struct {
	pass   *Pass
	width  int
	height int
}

// Uniform looks up a uniform by name. Missing names report ok=false;
// a missing uniform is not an error.
func (e *EvalEnv) Uniform(name string) (Uniform, bool) {
	u, ok := e.pass.Uniforms[name]
	return u, ok
}

// Float returns the named uniform as a float, or 0 if absent.
func (e *EvalEnv) Float(name string) float64 {
	u, ok := e.pass.Uniforms[name]
	if !ok {
		return 0
	}
	if u.Kind == UniformInt {
		return float64(u.I)
	}
	return u.F
}

// Int returns the named uniform as an int, or 0 if absent.
func (e *EvalEnv) Int(name string) int {
	u, ok := e.pass.Uniforms[name]
	if !ok {
		return 0
	}
	if u.Kind == UniformFloat {
		return int(u.F)
	}
	return u.I
}

// Vec3 returns the named uniform's vector, or zeros if absent.
func (e *EvalEnv) Vec3(name string) [3]float64 {
	u, ok := e.pass.Uniforms[name]
	if !ok {
		return [3]float64{}
	}
	return u.V
}

// Time returns the elapsed time in seconds for this frame.
func (e *EvalEnv) Time() float64 { return e.pass.Time }

// Size returns the output resolution of the pass.
func (e *EvalEnv) Size() (width, height int) { return e.width, e.height }

// Bound reports whether input slot's sampler resolves to a bound texture.
func (e *EvalEnv) Bound(slot int) bool {
	unit := e.Int(SamplerName(slot))
	return unit >= 0 && unit < len(e.pass.Textures) && e.pass.Textures[unit] != nil
}

// Sample reads input slot's texture at normalized coordinates (u, v) with
// nearest filtering and clamp-to-edge addressing. The slot's sampler
// uniform selects the texture unit; an unbound unit samples transparent
// black.
func (e *EvalEnv) Sample(slot int, u, v float64) (r, g, b, a float64) {
	unit := e.Int(SamplerName(slot))
	if unit < 0 || unit >= len(e.pass.Textures) {
		return 0, 0, 0, 0
	}
	tex, ok := e.pass.Textures[unit].(*softwareTexture)
	if !ok || tex == nil || tex.released.Load() {
		return 0, 0, 0, 0
	}

	x := int(u * float64(tex.width))
	y := int(v * float64(tex.height))
	if x < 0 {
		x = 0
	} else if x >= tex.width {
		x = tex.width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= tex.height {
		y = tex.height - 1
	}

	i := (y*tex.width + x) * 4
	return float64(tex.pix[i]) / 255,
		float64(tex.pix[i+1]) / 255,
		float64(tex.pix[i+2]) / 255,
		float64(tex.pix[i+3]) / 255
}

// softwareTexture is a CPU-backed RGBA texture.
type softwareTexture struct {
	width    int
	height   int
	label    string
	pix      []byte
	released atomic.Bool
}

func (t *softwareTexture) Width() int    { return t.width }
func (t *softwareTexture) Height() int   { return t.height }
func (t *softwareTexture) Label() string { return t.label }

// Release frees the pixel storage. Idempotent.
func (t *softwareTexture) Release() {
	if t.released.Swap(true) {
		return
	}
	t.pix = nil
}

// softwareTarget draws into its texture's pixel storage.
type softwareTarget struct {
	tex *softwareTexture
}

func (t *softwareTarget) Texture() Texture { return t.tex }
func (t *softwareTarget) Width() int       { return t.tex.width }
func (t *softwareTarget) Height() int      { return t.tex.height }
func (t *softwareTarget) Release()         { t.tex.Release() }

// softwareProgram wraps a CPU evaluator.
type softwareProgram struct {
	label string
	eval  EvalFunc
}

func (p *softwareProgram) Label() string { return p.label }

// SoftwareDevice is a pure-Go Device that evaluates node programs per
// pixel on the CPU. It backs tests and serves as the fallback when GPU
// initialization fails, mirroring the CPU fallback path of the GPU
// accelerator registration.
type SoftwareDevice struct {
	scratch []byte
}

// NewSoftwareDevice creates a software rendering device.
func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{}
}

// Name returns "software".
func (d *SoftwareDevice) Name() string { return "software" }

// NewTarget allocates a CPU texture and a target drawing into it.
func (d *SoftwareDevice) NewTarget(width, height int, label string) (Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	tex := &softwareTexture{
		width:  width,
		height: height,
		label:  label,
		pix:    make([]byte, width*height*4),
	}
	return &softwareTarget{tex: tex}, nil
}

// NewTexture creates an immutable texture from RGBA pixel data.
func (d *SoftwareDevice) NewTexture(width, height int, pix []byte, label string) (Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: pixel data %d bytes, want %d", ErrInvalidDimensions, len(pix), width*height*4)
	}
	tex := &softwareTexture{
		width:  width,
		height: height,
		label:  label,
		pix:    append([]byte(nil), pix...),
	}
	return tex, nil
}

// NewProgram wraps the source's CPU evaluator. WGSL is ignored here.
func (d *SoftwareDevice) NewProgram(src ProgramSource) (Program, error) {
	if src.Eval == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoEvaluator, src.Label)
	}
	return &softwareProgram{label: src.Label, eval: src.Eval}, nil
}

// Render evaluates the program for every pixel of the target.
//
// Output is produced into a scratch buffer and committed at the end, so a
// pass that fails midway leaves the target's previous contents intact.
func (d *SoftwareDevice) Render(p *Pass) error {
	if p == nil || p.Target == nil {
		return ErrNilTarget
	}
	if p.Program == nil {
		return ErrNilProgram
	}
	prog, ok := p.Program.(*softwareProgram)
	if !ok {
		return fmt.Errorf("render: foreign program %q on software device", p.Program.Label())
	}
	target, ok := p.Target.(*softwareTarget)
	if !ok {
		return fmt.Errorf("render: foreign target on software device")
	}
	if target.tex.released.Load() {
		return ErrTextureReleased
	}

	// Backstop for the engine's feedback hazard check.
	for _, tex := range p.Textures {
		if tex == Texture(target.tex) {
			return ErrFeedbackHazard
		}
	}

	w, h := target.tex.width, target.tex.height
	if cap(d.scratch) < w*h*4 {
		d.scratch = make([]byte, w*h*4)
	}
	out := d.scratch[:w*h*4]

	env := &EvalEnv{pass: p, width: w, height: h}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := prog.eval(env, x, y)
			i := (y*w + x) * 4
			out[i] = byte(clamp01(r) * 255)
			out[i+1] = byte(clamp01(g) * 255)
			out[i+2] = byte(clamp01(b) * 255)
			out[i+3] = byte(clamp01(a) * 255)
		}
	}

	copy(target.tex.pix, out)
	return nil
}

// Blit copies src into dst, scaling with bilinear interpolation when the
// sizes differ.
func (d *SoftwareDevice) Blit(src Texture, dst Target) error {
	st, ok := src.(*softwareTexture)
	if !ok || st.released.Load() {
		return ErrTextureReleased
	}
	dt, ok := dst.(*softwareTarget)
	if !ok || dt.tex.released.Load() {
		return ErrTextureReleased
	}

	if st.width == dt.tex.width && st.height == dt.tex.height {
		copy(dt.tex.pix, st.pix)
		return nil
	}

	srcImg := &image.RGBA{Pix: st.pix, Stride: st.width * 4, Rect: image.Rect(0, 0, st.width, st.height)}
	dstImg := &image.RGBA{Pix: dt.tex.pix, Stride: dt.tex.width * 4, Rect: image.Rect(0, 0, dt.tex.width, dt.tex.height)}
	draw.ApproxBiLinear.Scale(dstImg, dstImg.Rect, srcImg, srcImg.Rect, draw.Src, nil)
	return nil
}

// ReadPixels returns a copy of the texture's RGBA contents.
func (d *SoftwareDevice) ReadPixels(t Texture) ([]byte, error) {
	st, ok := t.(*softwareTexture)
	if !ok || st.released.Load() {
		return nil, ErrTextureReleased
	}
	return append([]byte(nil), st.pix...), nil
}

// Lost always reports false; a CPU device has no context to lose.
func (d *SoftwareDevice) Lost() bool { return false }

// Restore is a no-op for the software device.
func (d *SoftwareDevice) Restore() error { return nil }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var _ Device = (*SoftwareDevice)(nil)
