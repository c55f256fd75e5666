// Package dither applies Floyd–Steinberg error diffusion to a pixel buffer.
package dither

import (
	"github.com/bitmapkit/ditherd/internal/pixel"
	"github.com/bitmapkit/ditherd/internal/quantize"
)

// kernelEntry diffuses weight/16 of the quantization error to the pixel at
// (x+dx, y+dy). Offsets are for a left-to-right pass; dx is mirrored on
// right-to-left serpentine rows.
type kernelEntry struct {
	dx, dy int
	weight int32
}

// floydSteinberg is the classic 7/3/5/1 kernel. All targets are ahead of
// the scan position, so finalized pixels are never revisited.
var floydSteinberg = []kernelEntry{
	{dx: 1, dy: 0, weight: 7},
	{dx: -1, dy: 1, weight: 3},
	{dx: 0, dy: 1, weight: 5},
	{dx: 1, dy: 1, weight: 1},
}

// Options controls a dither run.
type Options struct {
	Mode quantize.Mode
	// Serpentine alternates scan direction each row. The default is a
	// plain raster scan.
	Serpentine bool
}

// accumulator holds the signed per-channel error carried into each pixel.
// Values are never clamped here; clamping happens only on the color handed
// to the quantizer, so error pushed past a saturated pixel is not lost.
type accumulator struct {
	width int
	resid []int32 // 3 entries per pixel, RGB order
}

func newAccumulator(width, height int) *accumulator {
	return &accumulator{
		width: width,
		resid: make([]int32, width*height*3),
	}
}

func (a *accumulator) add(x, y int, r, g, b int32) {
	i := (y*a.width + x) * 3
	a.resid[i] += r
	a.resid[i+1] += g
	a.resid[i+2] += b
}

func (a *accumulator) at(x, y int) (r, g, b int32) {
	i := (y*a.width + x) * 3
	return a.resid[i], a.resid[i+1], a.resid[i+2]
}

func clamp(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Run quantizes buf against palette in place. Each pixel's working color is
// its stored value plus previously diffused error; the working color is
// quantized, written back, and the residual spread over unvisited neighbors.
// The run is deterministic: identical inputs give identical buffers.
func Run(buf *pixel.Buffer, palette pixel.Palette, opts Options) error {
	if err := palette.Validate(); err != nil {
		return err
	}

	width := buf.Width()
	height := buf.Height()
	acc := newAccumulator(width, height)

	for y := 0; y < height; y++ {
		reverse := opts.Serpentine && y%2 == 1
		for i := 0; i < width; i++ {
			x := i
			dir := 1
			if reverse {
				x = width - 1 - i
				dir = -1
			}

			stored := buf.Get(x, y)
			er, eg, eb := acc.at(x, y)
			workR := int32(stored.R) + er
			workG := int32(stored.G) + eg
			workB := int32(stored.B) + eb

			working := pixel.RGB{R: clamp(workR), G: clamp(workG), B: clamp(workB)}
			out := palette[quantize.Nearest(working, palette, opts.Mode)]
			buf.Set(x, y, out)

			// Residual is measured against the unclamped working color.
			resR := workR - int32(out.R)
			resG := workG - int32(out.G)
			resB := workB - int32(out.B)

			for _, k := range floydSteinberg {
				nx := x + k.dx*dir
				ny := y + k.dy
				if !buf.InBounds(nx, ny) {
					continue
				}
				acc.add(nx, ny, resR*k.weight/16, resG*k.weight/16, resB*k.weight/16)
			}
		}
	}

	return nil
}
