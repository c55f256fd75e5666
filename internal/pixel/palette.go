package pixel

import (
	"fmt"
	"strings"
)

// Palette is an ordered set of output colors. Order matters: nearest-color
// ties are broken by the lowest index, so two palettes with the same colors
// in different order can dither differently.
type Palette []RGB

// InvalidPaletteError reports a palette that cannot be dithered against.
type InvalidPaletteError struct {
	Reason string
}

func (e *InvalidPaletteError) Error() string {
	return "invalid palette: " + e.Reason
}

// Validate checks that the palette is usable for quantization. A dither run
// needs at least two colors; anything less would not be quantization at all.
func (p Palette) Validate() error {
	if len(p) == 0 {
		return &InvalidPaletteError{Reason: "no colors"}
	}
	if len(p) < 2 {
		return &InvalidPaletteError{Reason: "need at least 2 colors"}
	}
	return nil
}

// Clone returns an independent copy of the palette.
func (p Palette) Clone() Palette {
	out := make(Palette, len(p))
	copy(out, p)
	return out
}

// namedColors are the colors the CLI accepts by name.
var namedColors = map[string]RGB{
	"black": {0, 0, 0},
	"white": {255, 255, 255},
	"red":   {255, 0, 0},
	"green": {0, 255, 0},
	"blue":  {0, 0, 255},
}

// ParseColor parses a single color given as a known name or as #rrggbb hex.
func ParseColor(s string) (RGB, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[key]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(key, "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("unknown color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return RGB{}, fmt.Errorf("unknown color %q", s)
	}
	return RGB{R: r, G: g, B: b}, nil
}

// ParsePalette parses a comma-separated list of color names and hex values,
// e.g. "black,white,#ff00ff". Order is preserved.
func ParsePalette(s string) (Palette, error) {
	parts := strings.Split(s, ",")
	p := make(Palette, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := ParseColor(part)
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Grayscale returns an evenly spaced grayscale ramp for the given bit depth:
// 2 levels for 1 bit, 4 for 2 bits, and so on.
func Grayscale(bitDepth int) (Palette, error) {
	if bitDepth < 1 || bitDepth > 8 {
		return nil, fmt.Errorf("unsupported grayscale bit depth %d", bitDepth)
	}
	levels := 1 << bitDepth
	p := make(Palette, levels)
	for i := 0; i < levels; i++ {
		v := uint8(i * 255 / (levels - 1))
		p[i] = RGB{R: v, G: v, B: v}
	}
	return p, nil
}

// BuiltinPalettes returns the named palettes the service advertises.
func BuiltinPalettes() map[string]Palette {
	bw, _ := Grayscale(1)
	gray4, _ := Grayscale(2)
	return map[string]Palette{
		"bw":    bw,
		"gray4": gray4,
		"rgbw": {
			{0, 0, 0},
			{255, 255, 255},
			{255, 0, 0},
			{0, 255, 0},
			{0, 0, 255},
		},
	}
}
