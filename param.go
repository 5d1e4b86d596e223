package vgraph

import (
	"fmt"
	"math"
)

// ValueKind identifies the type of a parameter value.
type ValueKind int

const (
	// ValueFloat is a 64-bit floating point value.
	ValueFloat ValueKind = iota

	// ValueInt is an integer value.
	ValueInt

	// ValueBool is a boolean value.
	ValueBool

	// ValueEnum is a string value drawn from a declared allowed set.
	ValueEnum

	// ValueColor is an opaque RGB color value.
	ValueColor
)

// String returns a human-readable name for the kind.
func (k ValueKind) String() string {
	switch k {
	case ValueFloat:
		return "float"
	case ValueInt:
		return "int"
	case ValueBool:
		return "bool"
	case ValueEnum:
		return "enum"
	case ValueColor:
		return "color"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Value is a typed parameter value. The zero Value is a float 0.
//
// Values are small and passed by value. Use the constructor functions
// (Float, Int, Bool, Enum, ColorValue) rather than struct literals so the
// kind tag is always consistent with the populated field.
type Value struct {
	kind ValueKind
	f    float64
	i    int
	b    bool
	s    string
	c    RGB
}

// Float creates a float value.
func Float(v float64) Value { return Value{kind: ValueFloat, f: v} }

// Int creates an integer value.
func Int(v int) Value { return Value{kind: ValueInt, i: v} }

// Bool creates a boolean value.
func Bool(v bool) Value { return Value{kind: ValueBool, b: v} }

// Enum creates an enum-string value.
func Enum(v string) Value { return Value{kind: ValueEnum, s: v} }

// ColorValue creates a color value.
func ColorValue(c RGB) Value { return Value{kind: ValueColor, c: c} }

// Kind returns the value's type tag.
func (v Value) Kind() ValueKind { return v.kind }

// Float64 returns the value as a float64. Integer values convert; other
// kinds return 0.
func (v Value) Float64() float64 {
	switch v.kind {
	case ValueFloat:
		return v.f
	case ValueInt:
		return float64(v.i)
	default:
		return 0
	}
}

// Int64 returns the value as an int. Float values truncate; other kinds
// return 0.
func (v Value) Int() int {
	switch v.kind {
	case ValueInt:
		return v.i
	case ValueFloat:
		return int(v.f)
	default:
		return 0
	}
}

// Bool returns the boolean value, or false for non-bool kinds.
func (v Value) Bool() bool { return v.kind == ValueBool && v.b }

// Enum returns the enum string, or "" for non-enum kinds.
func (v Value) Enum() string {
	if v.kind != ValueEnum {
		return ""
	}
	return v.s
}

// Color returns the color value, or black for non-color kinds.
func (v Value) Color() RGB {
	if v.kind != ValueColor {
		return RGB{}
	}
	return v.c
}

// String returns a debug representation of the value.
func (v Value) String() string {
	switch v.kind {
	case ValueFloat:
		return fmt.Sprintf("%g", v.f)
	case ValueInt:
		return fmt.Sprintf("%d", v.i)
	case ValueBool:
		return fmt.Sprintf("%t", v.b)
	case ValueEnum:
		return v.s
	case ValueColor:
		return v.c.HexString()
	default:
		return "invalid"
	}
}

// ParamSpec declares the type and constraints of a node parameter.
// The same spec drives validation (clamping) and UI generation.
type ParamSpec struct {
	// Kind is the value type of the parameter.
	Kind ValueKind

	// Min and Max bound numeric parameters. Ignored for bool, enum and
	// color kinds.
	Min, Max float64

	// Step is the UI increment for numeric parameters. Zero means
	// continuous. Step never affects validation.
	Step float64

	// Allowed lists the valid strings for enum parameters, in UI order.
	// The order is also the enum's code order for uniform writes and for
	// modulation index selection.
	Allowed []string

	// Default is the value a node starts with and the value an invalid
	// enum write falls back to.
	Default Value
}

// Clamp corrects v against the spec and returns the corrected value.
// Violations are corrected, never rejected:
//   - numeric values outside [Min, Max] clamp to the nearest bound
//   - float written to an int parameter rounds to nearest, then clamps
//   - invalid enum strings fall back to the declared default
//   - a value of the wrong kind falls back to the declared default
//
// The second return reports whether any correction was applied, so callers
// can log a non-blocking notice.
func (s ParamSpec) Clamp(v Value) (Value, bool) {
	switch s.Kind {
	case ValueFloat:
		if v.kind != ValueFloat && v.kind != ValueInt {
			return s.Default, true
		}
		f := v.Float64()
		if c := clampFloat(f, s.Min, s.Max); c != f || v.kind != ValueFloat {
			return Float(c), true
		}
		return v, false

	case ValueInt:
		if v.kind != ValueFloat && v.kind != ValueInt {
			return s.Default, true
		}
		i := v.i
		if v.kind == ValueFloat {
			i = int(math.Round(v.f))
		}
		c := int(clampFloat(float64(i), s.Min, s.Max))
		if c != i || v.kind != ValueInt {
			return Int(c), true
		}
		return v, false

	case ValueBool:
		if v.kind != ValueBool {
			return s.Default, true
		}
		return v, false

	case ValueEnum:
		if v.kind != ValueEnum {
			return s.Default, true
		}
		for _, a := range s.Allowed {
			if a == v.s {
				return v, false
			}
		}
		return s.Default, true

	case ValueColor:
		if v.kind != ValueColor {
			return s.Default, true
		}
		c := v.c
		corrected := RGB{
			R: clampFloat(c.R, 0, 1),
			G: clampFloat(c.G, 0, 1),
			B: clampFloat(c.B, 0, 1),
		}
		if corrected != c {
			return ColorValue(corrected), true
		}
		return v, false

	default:
		return s.Default, true
	}
}

// EnumIndex returns the index of the enum string s within the allowed set,
// or -1 if absent. The index doubles as the enum's integer uniform code.
func (s ParamSpec) EnumIndex(val string) int {
	for i, a := range s.Allowed {
		if a == val {
			return i
		}
	}
	return -1
}

func clampFloat(v, lo, hi float64) float64 {
	if hi > lo {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
	}
	return v
}
