package vgraph

import "image/color"

// RGB represents an opaque color with components in the range [0, 1].
// Node color parameters are stored as RGB; the render engine writes them
// as 3-component float vector uniforms.
type RGB struct {
	R, G, B float64
}

// Color converts RGB to the standard color.Color interface.
func (c RGB) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: 255,
	}
}

// Vec3 returns the color as a 3-component float vector for uniform writes.
func (c RGB) Vec3() [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}

// Lerp performs linear interpolation between two colors.
func (c RGB) Lerp(other RGB, t float64) RGB {
	return RGB{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
	}
}

// Hex creates a color from a hex string.
// Supports formats: "RGB", "RRGGBB", with or without a leading '#'.
// Malformed strings yield black, matching the fallback behavior of
// parameter validation (invalid values never error, they degrade).
func Hex(hex string) RGB {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b uint32

	switch len(hex) {
	case 3: // RGB
		parseHex(hex[0:1], &r)
		parseHex(hex[1:2], &g)
		parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 6: // RRGGBB
		parseHex(hex[0:2], &r)
		parseHex(hex[2:4], &g)
		parseHex(hex[4:6], &b)
	default:
		return RGB{}
	}

	return RGB{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}
}

// HexString returns the color as a "#RRGGBB" string, the form used by
// snapshots and color parameter defaults.
func (c RGB) HexString() string {
	const digits = "0123456789abcdef"
	buf := [7]byte{'#'}
	vals := [3]float64{c.R, c.G, c.B}
	for i, v := range vals {
		b := uint8(clamp255(v * 255))
		buf[1+i*2] = digits[b>>4]
		buf[2+i*2] = digits[b&0xf]
	}
	return string(buf[:])
}

// parseHex is a helper for hex parsing.
func parseHex(s string, val *uint32) {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return
		}
	}
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
