package render

// BlendMode selects the per-channel function a two-input compositor uses
// to combine its base (slot 0) and blend (slot 1) inputs.
//
// The integer values are the enum codes written as the blendMode uniform;
// they are part of the observable protocol and must not be reordered.
type BlendMode int

const (
	// BlendNormal replaces the base with the blend input.
	BlendNormal BlendMode = iota

	// BlendMultiply multiplies base and blend per channel.
	// Multiplying by white yields the other input unchanged.
	BlendMultiply

	// BlendScreen inverts, multiplies and inverts again, producing a
	// lighter result. Screening over black yields the other input
	// unchanged.
	BlendScreen

	// BlendOverlay multiplies dark base channels and screens light ones.
	BlendOverlay
)

// blendModeNames maps mode names to codes. Order matches the BlendMode
// constants; ParamSpec.Allowed for blendMode parameters uses this order.
var blendModeNames = []string{"normal", "multiply", "screen", "overlay"}

// String returns the mode's name.
func (m BlendMode) String() string {
	if m < 0 || int(m) >= len(blendModeNames) {
		return "normal"
	}
	return blendModeNames[m]
}

// BlendModeNames returns the mode names in code order.
func BlendModeNames() []string {
	out := make([]string, len(blendModeNames))
	copy(out, blendModeNames)
	return out
}

// ParseBlendMode resolves a mode name to its code. Unknown names report
// ok=false; callers fall back to BlendNormal.
func ParseBlendMode(name string) (BlendMode, bool) {
	for i, n := range blendModeNames {
		if n == name {
			return BlendMode(i), true
		}
	}
	return BlendNormal, false
}

// Blend combines base and blend colors (unpremultiplied, components in
// [0, 1]) using the mode's per-channel function, then linearly
// interpolates between the unmodified base and the blended result by
// opacity. The opacity mix applies after the blend function, never
// before: opacity 0 always yields the unmodified base regardless of mode.
func Blend(mode BlendMode, base, blend [3]float64, opacity float64) [3]float64 {
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}

	var out [3]float64
	for i := 0; i < 3; i++ {
		b := blendChannel(mode, base[i], blend[i])
		out[i] = base[i] + (b-base[i])*opacity
	}
	return out
}

// blendChannel applies the per-channel blend function B(Cb, Cs) for a
// single channel, following the W3C compositing formulas.
func blendChannel(mode BlendMode, base, blend float64) float64 {
	switch mode {
	case BlendMultiply:
		return base * blend
	case BlendScreen:
		return 1 - (1-base)*(1-blend)
	case BlendOverlay:
		// HardLight with swapped layers: multiply for dark base,
		// screen for light base.
		if base <= 0.5 {
			return 2 * base * blend
		}
		return 1 - 2*(1-base)*(1-blend)
	default: // BlendNormal
		return blend
	}
}
