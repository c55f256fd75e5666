// Package pipeline wires the bitmap codec, quantizer, and ditherer into the
// full byte-to-byte transform.
package pipeline

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/bitmapkit/ditherd/internal/bmp"
	"github.com/bitmapkit/ditherd/internal/dither"
	"github.com/bitmapkit/ditherd/internal/logging"
	"github.com/bitmapkit/ditherd/internal/pixel"
	"github.com/bitmapkit/ditherd/internal/quantize"
)

// Options customizes a conversion.
type Options struct {
	Palette    pixel.Palette
	Mode       quantize.Mode
	Serpentine bool

	// Width and Height, when both positive, resize the image before
	// dithering so diffusion runs at the output resolution.
	Width  int
	Height int
}

// DefaultOptions dithers to black and white with Euclidean distance.
func DefaultOptions() Options {
	bw, _ := pixel.Grayscale(1)
	return Options{
		Palette: bw,
		Mode:    quantize.Euclidean,
	}
}

// Convert decodes a 24-bit bitmap, dithers it against the palette, and
// re-encodes it. The input bytes are not modified. Errors from the codec
// and engine are returned as-is so callers can inspect their types; no
// output is produced on any failure.
func Convert(data []byte, opts Options) ([]byte, error) {
	if err := opts.Palette.Validate(); err != nil {
		return nil, err
	}

	header, buf, err := bmp.Decode(data)
	if err != nil {
		return nil, err
	}
	logging.Debug("decoded bitmap",
		"width", header.Width,
		"height", header.Height,
		"bit_count", header.BitCount,
		"file_size", header.FileSize,
		"top_down", header.TopDown(),
	)

	if opts.Width > 0 && opts.Height > 0 {
		buf, err = resize(buf, opts.Width, opts.Height)
		if err != nil {
			return nil, err
		}
	}

	if err := dither.Run(buf, opts.Palette, dither.Options{
		Mode:       opts.Mode,
		Serpentine: opts.Serpentine,
	}); err != nil {
		return nil, err
	}

	return bmp.Encode(buf), nil
}

// resize scales the buffer to exactly width x height using bilinear
// interpolation.
func resize(buf *pixel.Buffer, width, height int) (*pixel.Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("pipeline: invalid resize target %dx%d", width, height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), buf, buf.Bounds(), xdraw.Src, nil)
	return pixel.FromImage(dst)
}
