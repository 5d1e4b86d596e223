package render

import "math"

// fallbackWGSL is the fragment shader of the fallback program: scrolling
// diagonal stripes. Deliberately minimal so it compiles on any device.
const fallbackWGSL = `
struct Globals {
	u_time: f32,
	u_resolution: vec2<f32>,
}
@group(0) @binding(0) var<uniform> globals: Globals;

@fragment
fn fs_main(@builtin(position) pos: vec4<f32>) -> @location(0) vec4<f32> {
	let d = (pos.x + pos.y) / 24.0 + globals.u_time * 2.0;
	let s = 0.25 + 0.5 * step(fract(d), 0.5);
	return vec4<f32>(s, s, s, 1.0);
}
`

// FallbackProgram returns the animated placeholder program substituted
// when a node's own program fails to compile or link. The node keeps
// producing a valid texture so the rest of the graph renders normally.
func FallbackProgram() ProgramSource {
	return ProgramSource{
		Label: "fallback",
		WGSL:  fallbackWGSL,
		Eval: func(env *EvalEnv, x, y int) (r, g, b, a float64) {
			d := float64(x+y)/24.0 + env.Time()*2.0
			s := 0.25
			if math.Mod(d, 1.0) < 0.5 {
				s = 0.75
			}
			return s, s, s, 1
		},
	}
}
