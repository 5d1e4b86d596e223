package vgraph

import (
	"fmt"
	"math"

	"github.com/gogpu/vgraph/render"
)

// Kind identifies a node type. The set is closed: behavior is resolved
// through the static descriptor table at registration, never re-derived
// per frame.
type Kind int

const (
	// KindOutput is the singleton terminal output node.
	KindOutput Kind = iota

	// KindSolid is a source producing a solid color.
	KindSolid

	// KindOsc is a source producing a scrolling sine gradient.
	KindOsc

	// KindTransform is an effect applying rotate/translate/scale/slice to
	// its single input.
	KindTransform

	// KindBlend is a two-input compositor with selectable blend mode.
	KindBlend

	// KindLFO is a control input driven by a low-frequency oscillator.
	KindLFO

	// KindRandom is a control input driven by a smoothed random walk.
	KindRandom

	// KindMIDI is a control input sampled from an external MIDI signal.
	KindMIDI

	// KindAudio is a control input sampled from an audio spectrum band.
	KindAudio

	// KindCursor is a control input sampled from the cursor position.
	KindCursor
)

// Category groups kinds for scheduling and UI purposes only; it carries
// no per-frame behavior.
type Category int

const (
	// CategorySource produces a texture with no texture inputs.
	CategorySource Category = iota

	// CategoryEffect transforms one input texture.
	CategoryEffect

	// CategoryCompositing combines two input textures.
	CategoryCompositing

	// CategoryInput is a control input with no texture output.
	CategoryInput

	// CategorySystem is the terminal output node.
	CategorySystem
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategorySource:
		return "source"
	case CategoryEffect:
		return "effect"
	case CategoryCompositing:
		return "compositing"
	case CategoryInput:
		return "input"
	case CategorySystem:
		return "system"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Descriptor is the static per-kind table entry: slot counts, parameter
// specs, uniform naming and the node program. Resolved once at kind
// registration.
type Descriptor struct {
	// Name is the kind's stable type tag, used by snapshots.
	Name string

	// Category groups the kind for scheduling and UI.
	Category Category

	// InputSlots is the number of texture input slots.
	InputSlots int

	// ControlTargets names the modulatable parameters, in slot order:
	// control-input slot i drives the parameter ControlTargets[i].
	ControlTargets []string

	// Params declares the kind's parameters and constraints.
	Params map[string]ParamSpec

	// Angles marks angle-valued parameters, written as radians uniforms
	// while stored and modulated in degrees.
	Angles map[string]bool

	// UniformOverrides maps a parameter name to a custom uniform name for
	// shader variants that diverge from the u_<param> construction.
	UniformOverrides map[string]string

	// Program is the kind's program source (WGSL for the GPU path, Eval
	// for the software path). Nil for control kinds and the output node.
	Program *render.ProgramSource
}

// UniformFor returns the uniform name for one of the kind's parameters,
// honoring overrides.
func (d *Descriptor) UniformFor(param string) string {
	if n, ok := d.UniformOverrides[param]; ok {
		return n
	}
	return render.UniformName(param)
}

// RendersTexture reports whether nodes of this kind produce a texture and
// therefore own a render target.
func (d *Descriptor) RendersTexture() bool {
	return d.Category != CategoryInput && d.Category != CategorySystem
}

// Describe returns the kind's descriptor, or nil for an unknown kind.
func (k Kind) Describe() *Descriptor {
	return descriptors[k]
}

// String returns the kind's type tag.
func (k Kind) String() string {
	if d := descriptors[k]; d != nil {
		return d.Name
	}
	return fmt.Sprintf("Unknown(%d)", int(k))
}

// ParseKind resolves a type tag to its kind.
func ParseKind(name string) (Kind, error) {
	for k, d := range descriptors {
		if d.Name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// controlRange is the shared [min,max] output range of control kinds. The
// control node remaps the provider's raw normalized value into this range.
func controlRange() map[string]ParamSpec {
	return map[string]ParamSpec{
		"min": {Kind: ValueFloat, Min: -10, Max: 10, Default: Float(0)},
		"max": {Kind: ValueFloat, Min: -10, Max: 10, Default: Float(1)},
	}
}

var descriptors = map[Kind]*Descriptor{
	KindOutput: {
		Name:       "output",
		Category:   CategorySystem,
		InputSlots: 1,
		Params:     map[string]ParamSpec{},
	},

	KindSolid: {
		Name:     "solid",
		Category: CategorySource,
		Params: map[string]ParamSpec{
			"color": {Kind: ValueColor, Default: ColorValue(RGB{R: 1, G: 1, B: 1})},
		},
		Program: &render.ProgramSource{
			Label: "solid",
			WGSL:  solidWGSL,
			Eval: func(env *render.EvalEnv, x, y int) (r, g, b, a float64) {
				c := env.Vec3("u_color")
				return c[0], c[1], c[2], 1
			},
		},
	},

	KindOsc: {
		Name:           "osc",
		Category:       CategorySource,
		ControlTargets: []string{"frequency", "speed"},
		Params: map[string]ParamSpec{
			"frequency": {Kind: ValueFloat, Min: 0, Max: 50, Step: 0.1, Default: Float(4)},
			"speed":     {Kind: ValueFloat, Min: 0, Max: 50, Step: 0.1, Default: Float(1)},
			"color":     {Kind: ValueColor, Default: ColorValue(RGB{R: 1, G: 1, B: 1})},
		},
		Program: &render.ProgramSource{
			Label: "osc",
			WGSL:  oscWGSL,
			Eval: func(env *render.EvalEnv, x, y int) (r, g, b, a float64) {
				w, _ := env.Size()
				u := float64(x) / float64(w)
				freq := env.Float("u_frequency")
				speed := env.Float("u_speed")
				c := env.Vec3("u_color")
				s := 0.5 + 0.5*math.Sin(2*math.Pi*(u*freq+env.Time()*speed))
				return c[0] * s, c[1] * s, c[2] * s, 1
			},
		},
	},

	KindTransform: {
		Name:           "transform",
		Category:       CategoryEffect,
		InputSlots:     1,
		ControlTargets: []string{"rotation", "posX", "posY", "scaleX", "scaleY", "slices"},
		Params: map[string]ParamSpec{
			"rotation": {Kind: ValueFloat, Min: 0, Max: 360, Step: 1, Default: Float(0)},
			"posX":     {Kind: ValueFloat, Min: -1, Max: 1, Step: 0.01, Default: Float(0)},
			"posY":     {Kind: ValueFloat, Min: -1, Max: 1, Step: 0.01, Default: Float(0)},
			"scaleX":   {Kind: ValueFloat, Min: 0, Max: 3, Step: 0.01, Default: Float(1)},
			"scaleY":   {Kind: ValueFloat, Min: 0, Max: 3, Step: 0.01, Default: Float(1)},
			"slices":   {Kind: ValueInt, Min: 1, Max: 10, Step: 1, Default: Int(1)},
		},
		Angles: map[string]bool{"rotation": true},
		Program: &render.ProgramSource{
			Label: "transform",
			WGSL:  transformWGSL,
			Eval:  evalTransform,
		},
	},

	KindBlend: {
		Name:           "blend",
		Category:       CategoryCompositing,
		InputSlots:     2,
		ControlTargets: []string{"opacity", "blendMode"},
		Params: map[string]ParamSpec{
			"blendMode": {Kind: ValueEnum, Allowed: render.BlendModeNames(), Default: Enum("normal")},
			"opacity":   {Kind: ValueFloat, Min: 0, Max: 1, Step: 0.01, Default: Float(1)},
			"split":     {Kind: ValueBool, Default: Bool(false)},
		},
		Program: &render.ProgramSource{
			Label: "blend",
			WGSL:  blendWGSL,
			Eval:  evalBlend,
		},
	},

	KindLFO: {
		Name:     "lfo",
		Category: CategoryInput,
		Params: mergeParams(controlRange(), map[string]ParamSpec{
			"frequency": {Kind: ValueFloat, Min: 0, Max: 50, Step: 0.1, Default: Float(1)},
		}),
	},

	KindRandom: {
		Name:     "random",
		Category: CategoryInput,
		Params:   controlRange(),
	},

	KindMIDI: {
		Name:     "midi",
		Category: CategoryInput,
		Params: mergeParams(controlRange(), map[string]ParamSpec{
			"channel": {Kind: ValueInt, Min: 0, Max: 15, Step: 1, Default: Int(0)},
			"cc":      {Kind: ValueInt, Min: 0, Max: 127, Step: 1, Default: Int(1)},
		}),
	},

	KindAudio: {
		Name:     "audio",
		Category: CategoryInput,
		Params: mergeParams(controlRange(), map[string]ParamSpec{
			"band": {Kind: ValueInt, Min: 0, Max: 7, Step: 1, Default: Int(0)},
		}),
	},

	KindCursor: {
		Name:     "cursor",
		Category: CategoryInput,
		Params: mergeParams(controlRange(), map[string]ParamSpec{
			"axis": {Kind: ValueEnum, Allowed: []string{"x", "y"}, Default: Enum("x")},
		}),
	},
}

func mergeParams(base, extra map[string]ParamSpec) map[string]ParamSpec {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// evalTransform samples input slot 0 through the inverse of the node's
// rotate/translate/scale around the frame center, with the slice count
// repeating the horizontal axis.
func evalTransform(env *render.EvalEnv, x, y int) (r, g, b, a float64) {
	if !env.Bound(0) {
		return 0, 0, 0, 0
	}
	w, h := env.Size()
	u := float64(x)/float64(w) - 0.5
	v := float64(y)/float64(h) - 0.5

	// rotation uniform arrives in radians (AngleUniform conversion)
	rot := env.Float("u_rotation")
	sin, cos := math.Sin(-rot), math.Cos(-rot)
	ru := u*cos - v*sin
	rv := u*sin + v*cos

	sx := env.Float("u_scaleX")
	sy := env.Float("u_scaleY")
	if sx != 0 {
		ru /= sx
	}
	if sy != 0 {
		rv /= sy
	}

	ru -= env.Float("u_posX")
	rv -= env.Float("u_posY")

	su := ru + 0.5
	sv := rv + 0.5

	if slices := env.Int("u_slices"); slices > 1 {
		su = su * float64(slices)
		su = su - math.Floor(su)
	}

	return env.Sample(0, su, sv)
}

// evalBlend combines the base (slot 0) and blend (slot 1) inputs. The
// split diagnostic renders the two inputs side by side instead of
// blending, independent of the selected mode.
func evalBlend(env *render.EvalEnv, x, y int) (r, g, b, a float64) {
	w, h := env.Size()
	u := float64(x) / float64(w)
	v := float64(y) / float64(h)

	if env.Int("u_split") != 0 {
		if u < 0.5 {
			return env.Sample(0, u*2, v)
		}
		return env.Sample(1, (u-0.5)*2, v)
	}

	br, bg, bb, ba := env.Sample(0, u, v)
	sr, sg, sb, _ := env.Sample(1, u, v)

	mode := render.BlendMode(env.Int("u_blendMode"))
	out := render.Blend(mode, [3]float64{br, bg, bb}, [3]float64{sr, sg, sb}, env.Float("u_opacity"))
	if ba <= 0 {
		ba = 1
	}
	return out[0], out[1], out[2], ba
}

// WGSL sources for the GPU path. Uniform member names follow the same
// u_<param> construction the software path reads.

const solidWGSL = `
struct Params {
	u_time: f32,
	u_resolution: vec2<f32>,
	u_color: vec3<f32>,
}
@group(0) @binding(0) var<uniform> params: Params;

@fragment
fn fs_main(@builtin(position) pos: vec4<f32>) -> @location(0) vec4<f32> {
	return vec4<f32>(params.u_color, 1.0);
}
`

const oscWGSL = `
struct Params {
	u_time: f32,
	u_resolution: vec2<f32>,
	u_frequency: f32,
	u_speed: f32,
	u_color: vec3<f32>,
}
@group(0) @binding(0) var<uniform> params: Params;

@fragment
fn fs_main(@builtin(position) pos: vec4<f32>) -> @location(0) vec4<f32> {
	let u = pos.x / params.u_resolution.x;
	let s = 0.5 + 0.5 * sin(6.2831853 * (u * params.u_frequency + params.u_time * params.u_speed));
	return vec4<f32>(params.u_color * s, 1.0);
}
`

const transformWGSL = `
struct Params {
	u_time: f32,
	u_resolution: vec2<f32>,
	u_rotation: f32,
	u_posX: f32,
	u_posY: f32,
	u_scaleX: f32,
	u_scaleY: f32,
	u_slices: i32,
}
@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var u_texture0: texture_2d<f32>;
@group(0) @binding(2) var smp: sampler;

@fragment
fn fs_main(@builtin(position) pos: vec4<f32>) -> @location(0) vec4<f32> {
	var uv = pos.xy / params.u_resolution - vec2<f32>(0.5, 0.5);
	let s = sin(-params.u_rotation);
	let c = cos(-params.u_rotation);
	uv = vec2<f32>(uv.x * c - uv.y * s, uv.x * s + uv.y * c);
	uv = uv / vec2<f32>(max(params.u_scaleX, 1e-6), max(params.u_scaleY, 1e-6));
	uv = uv - vec2<f32>(params.u_posX, params.u_posY) + vec2<f32>(0.5, 0.5);
	if (params.u_slices > 1) {
		uv.x = fract(uv.x * f32(params.u_slices));
	}
	return textureSample(u_texture0, smp, uv);
}
`

const blendWGSL = `
struct Params {
	u_time: f32,
	u_resolution: vec2<f32>,
	u_blendMode: i32,
	u_opacity: f32,
	u_split: i32,
}
@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var u_texture0: texture_2d<f32>;
@group(0) @binding(2) var u_texture1: texture_2d<f32>;
@group(0) @binding(3) var smp: sampler;

fn blend_channel(mode: i32, base: f32, blend: f32) -> f32 {
	if (mode == 1) { return base * blend; }
	if (mode == 2) { return 1.0 - (1.0 - base) * (1.0 - blend); }
	if (mode == 3) {
		if (base <= 0.5) { return 2.0 * base * blend; }
		return 1.0 - 2.0 * (1.0 - base) * (1.0 - blend);
	}
	return blend;
}

@fragment
fn fs_main(@builtin(position) pos: vec4<f32>) -> @location(0) vec4<f32> {
	let uv = pos.xy / params.u_resolution;
	if (params.u_split != 0) {
		if (uv.x < 0.5) {
			return textureSample(u_texture0, smp, vec2<f32>(uv.x * 2.0, uv.y));
		}
		return textureSample(u_texture1, smp, vec2<f32>((uv.x - 0.5) * 2.0, uv.y));
	}
	let base = textureSample(u_texture0, smp, uv);
	let top = textureSample(u_texture1, smp, uv);
	let blended = vec3<f32>(
		blend_channel(params.u_blendMode, base.r, top.r),
		blend_channel(params.u_blendMode, base.g, top.g),
		blend_channel(params.u_blendMode, base.b, top.b),
	);
	let rgb = mix(base.rgb, blended, clamp(params.u_opacity, 0.0, 1.0));
	return vec4<f32>(rgb, base.a);
}
`
