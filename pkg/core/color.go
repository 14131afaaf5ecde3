package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB triple with a nominal range of 0-255 per channel.
// The range is not enforced; shading may produce values above 255.
type Color struct {
	R, G, B int
}

// White is the default colour for surfaces and lights
var White = Color{R: 255, G: 255, B: 255}

// Black is the background colour for rays that hit nothing
var Black = Color{}

// NewColor creates a new Color
func NewColor(r, g, b int) Color {
	return Color{R: r, G: g, B: b}
}

// Vec3 returns the colour channels as a vector for per-channel arithmetic
func (c Color) Vec3() Vec3 {
	return Vec3{X: float64(c.R), Y: float64(c.G), Z: float64(c.B)}
}

// ColorFromVec3 truncates each component of v towards zero
func ColorFromVec3(v Vec3) Color {
	return Color{R: int(v.X), G: int(v.Y), B: int(v.Z)}
}

// String formats the colour as "(r, g, b)"
func (c Color) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}

// ParseHexColor parses a colour written as three whitespace-separated
// two-digit hex pairs, e.g. "ff 80 00".
func ParseHexColor(s string) (Color, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return Color{}, fmt.Errorf("colour %q: expected 3 hex values, got %d", s, len(fields))
	}

	var channels [3]int
	for i, field := range fields {
		if len(field) != 2 {
			return Color{}, fmt.Errorf("colour %q: hex value %q must be two digits", s, field)
		}
		value, err := strconv.ParseUint(field, 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("colour %q: invalid hex value %q: %w", s, field, err)
		}
		channels[i] = int(value)
	}

	return Color{R: channels[0], G: channels[1], B: channels[2]}, nil
}

// ColorSpec is a colour as supplied by a scene description: either a triple
// or a hex-pair string. Resolve normalizes both to a Color.
type ColorSpec struct {
	Triple *[3]int
	Hex    string
}

// IsZero reports whether no colour was supplied
func (cs ColorSpec) IsZero() bool {
	return cs.Triple == nil && cs.Hex == ""
}

// Resolve returns the Color described by cs, or White if nothing was supplied
func (cs ColorSpec) Resolve() (Color, error) {
	switch {
	case cs.Triple != nil && cs.Hex != "":
		return Color{}, fmt.Errorf("colour given both as triple %v and hex %q", *cs.Triple, cs.Hex)
	case cs.Triple != nil:
		return Color{R: cs.Triple[0], G: cs.Triple[1], B: cs.Triple[2]}, nil
	case cs.Hex != "":
		return ParseHexColor(cs.Hex)
	default:
		return White, nil
	}
}
