package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmapkit/ditherd/internal/pixel"
)

func TestParsePaletteYAML(t *testing.T) {
	data := []byte(`name: eink
colors:
  - black
  - white
  - "#ff0000"
`)
	p, err := ParsePaletteYAML(data)
	if err != nil {
		t.Fatal(err)
	}
	want := pixel.Palette{{R: 0, G: 0, B: 0}, {R: 255, G: 255, B: 255}, {R: 255, G: 0, B: 0}}
	if len(p) != len(want) {
		t.Fatalf("got %d colors, want %d", len(p), len(want))
	}
	for i := range want {
		if p[i] != want[i] {
			t.Errorf("color %d = %v, want %v", i, p[i], want[i])
		}
	}

	// Same colors as the equivalent inline string.
	inline, err := pixel.ParsePalette("black,white,#ff0000")
	if err != nil {
		t.Fatal(err)
	}
	for i := range inline {
		if p[i] != inline[i] {
			t.Errorf("YAML and inline palettes disagree at %d: %v vs %v", i, p[i], inline[i])
		}
	}
}

func TestParsePaletteYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not yaml", data: ":\n  - ["},
		{name: "unknown color", data: "name: x\ncolors: [black, vermilion]"},
		{name: "too few colors", data: "name: x\ncolors: [black]"},
		{name: "no colors", data: "name: x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePaletteYAML([]byte(tt.data)); err == nil {
				t.Error("parse succeeded, want error")
			}
		})
	}
}

func TestLoadPalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.yaml")
	if err := os.WriteFile(path, []byte("name: bw\ncolors: [black, white]"), 0o600); err != nil {
		t.Fatal(err)
	}
	p, err := LoadPalette(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != 2 {
		t.Errorf("got %d colors, want 2", len(p))
	}

	if _, err := LoadPalette(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}
}
