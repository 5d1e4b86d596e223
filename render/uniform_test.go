package render

import (
	"math"
	"testing"
)

func TestUniformNames(t *testing.T) {
	if got := UniformName("rotation"); got != "u_rotation" {
		t.Errorf("UniformName = %q, want u_rotation", got)
	}
	if got := SamplerName(0); got != "u_texture0" {
		t.Errorf("SamplerName(0) = %q, want u_texture0", got)
	}
	if got := SamplerName(1); got != "u_texture1" {
		t.Errorf("SamplerName(1) = %q, want u_texture1", got)
	}
}

func TestAngleUniform(t *testing.T) {
	tests := []struct {
		degrees float64
		radians float64
	}{
		{0, 0},
		{90, math.Pi / 2},
		{180, math.Pi},
		{360, 2 * math.Pi},
	}
	for _, tt := range tests {
		u := AngleUniform(tt.degrees)
		if u.Kind != UniformFloat || math.Abs(u.F-tt.radians) > 1e-12 {
			t.Errorf("AngleUniform(%v) = %+v, want %v radians", tt.degrees, u, tt.radians)
		}
	}
}

func TestBoolUniform(t *testing.T) {
	if u := BoolUniform(true); u.Kind != UniformInt || u.I != 1 {
		t.Errorf("BoolUniform(true) = %+v, want int 1", u)
	}
	if u := BoolUniform(false); u.Kind != UniformInt || u.I != 0 {
		t.Errorf("BoolUniform(false) = %+v, want int 0", u)
	}
}
