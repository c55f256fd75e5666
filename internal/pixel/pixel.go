package pixel

import (
	"fmt"
	"image"
	"image/color"
)

// RGB is a single pixel with 8 bits per channel.
type RGB struct {
	R, G, B uint8
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Buffer is a row-major grid of RGB pixels. Row 0 is the visual top of the
// image regardless of how the source container stored its rows.
type Buffer struct {
	width  int
	height int
	pix    []RGB
}

// New creates a zeroed buffer. Width and height must both be positive.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("pixel: invalid buffer dimensions %dx%d", width, height)
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]RGB, width*height),
	}, nil
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// InBounds reports whether (x, y) addresses a pixel inside the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Get returns the pixel at (x, y). It panics if the coordinate is out of
// range, same as indexing a slice would.
func (b *Buffer) Get(x, y int) RGB {
	if !b.InBounds(x, y) {
		panic(fmt.Sprintf("pixel: coordinate (%d,%d) out of range for %dx%d buffer", x, y, b.width, b.height))
	}
	return b.pix[y*b.width+x]
}

// Set writes the pixel at (x, y). It panics if the coordinate is out of range.
func (b *Buffer) Set(x, y int, c RGB) {
	if !b.InBounds(x, y) {
		panic(fmt.Sprintf("pixel: coordinate (%d,%d) out of range for %dx%d buffer", x, y, b.width, b.height))
	}
	b.pix[y*b.width+x] = c
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]RGB, len(b.pix))
	copy(pix, b.pix)
	return &Buffer{width: b.width, height: b.height, pix: pix}
}

// Equal reports whether two buffers have identical dimensions and pixels.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil || b.width != other.width || b.height != other.height {
		return false
	}
	for i := range b.pix {
		if b.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// At implements image.Image.
func (b *Buffer) At(x, y int) color.Color {
	if !b.InBounds(x, y) {
		return color.RGBA{}
	}
	c := b.pix[y*b.width+x]
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// FromImage copies an image into a new buffer, discarding alpha.
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	buf, err := New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	for y := 0; y < buf.height; y++ {
		for x := 0; x < buf.width; x++ {
			r, g, b2, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			buf.Set(x, y, RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b2 >> 8)})
		}
	}
	return buf, nil
}
