package render

import (
	"fmt"
	"math"
)

// UniformKind identifies the wire type of a uniform value.
type UniformKind int

const (
	// UniformFloat is a single 32-bit float.
	UniformFloat UniformKind = iota

	// UniformInt is a single 32-bit integer. Booleans are written as 0/1
	// and enums as their fixed integer code.
	UniformInt

	// UniformVec2 is a 2-component float vector.
	UniformVec2

	// UniformVec3 is a 3-component float vector. Colors are written as
	// vec3 from their hex value.
	UniformVec3
)

// Uniform is a typed uniform value. Use the constructor functions so the
// kind tag always matches the populated field.
type Uniform struct {
	Kind UniformKind
	F    float64
	I    int
	V    [3]float64
}

// FloatUniform creates a float uniform.
func FloatUniform(v float64) Uniform { return Uniform{Kind: UniformFloat, F: v} }

// IntUniform creates an integer uniform.
func IntUniform(v int) Uniform { return Uniform{Kind: UniformInt, I: v} }

// BoolUniform creates an integer uniform carrying 0 or 1.
func BoolUniform(v bool) Uniform {
	if v {
		return Uniform{Kind: UniformInt, I: 1}
	}
	return Uniform{Kind: UniformInt, I: 0}
}

// Vec2Uniform creates a 2-component vector uniform.
func Vec2Uniform(x, y float64) Uniform {
	return Uniform{Kind: UniformVec2, V: [3]float64{x, y, 0}}
}

// Vec3Uniform creates a 3-component vector uniform.
func Vec3Uniform(v [3]float64) Uniform { return Uniform{Kind: UniformVec3, V: v} }

// AngleUniform creates a float uniform from a value in degrees, converted
// to radians. Angle-valued parameters are stored and modulated in degrees
// but shaders consume radians.
func AngleUniform(degrees float64) Uniform {
	return Uniform{Kind: UniformFloat, F: degrees * math.Pi / 180}
}

// UniformName returns the uniform name for a parameter. This is the single
// authoritative construction; call sites must not concatenate the prefix
// themselves.
func UniformName(param string) string { return "u_" + param }

// SamplerName returns the sampler uniform name for an input slot. The
// engine sets this uniform to the slot's own index, and binds the slot's
// texture to that same unit.
func SamplerName(slot int) string { return fmt.Sprintf("u_texture%d", slot) }

// Universal uniform names written on every pass.
const (
	// UniformTime is the elapsed time in seconds.
	UniformTime = "u_time"

	// UniformResolution is the output resolution as a vec2.
	UniformResolution = "u_resolution"
)
