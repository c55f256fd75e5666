package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bitmapkit/ditherd/internal/pixel"
)

// PaletteFile is the on-disk palette definition format:
//
//	name: eink-color
//	colors:
//	  - black
//	  - white
//	  - "#ff0000"
type PaletteFile struct {
	Name   string   `yaml:"name"`
	Colors []string `yaml:"colors"`
}

// LoadPalette reads a YAML palette file and resolves its color names and
// hex values, preserving their order.
func LoadPalette(path string) (pixel.Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading palette file: %w", err)
	}
	return ParsePaletteYAML(data)
}

// ParsePaletteYAML parses palette file contents.
func ParsePaletteYAML(data []byte) (pixel.Palette, error) {
	var pf PaletteFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing palette file: %w", err)
	}
	p := make(pixel.Palette, 0, len(pf.Colors))
	for _, s := range pf.Colors {
		c, err := pixel.ParseColor(s)
		if err != nil {
			return nil, fmt.Errorf("palette %q: %w", pf.Name, err)
		}
		p = append(p, c)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
