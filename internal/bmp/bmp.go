// Package bmp reads and writes 24-bit uncompressed Windows bitmaps.
//
// Only the BITMAPINFOHEADER family at 24 bits per pixel with BI_RGB
// (uncompressed) storage is supported. Decoded pixels are handed to the
// rest of the system as top-down RGB rows; the on-disk bottom-up order and
// BGR channel order stay inside this package.
package bmp

import (
	"fmt"

	"github.com/bitmapkit/ditherd/internal/pixel"
)

const (
	fileHeaderSize = 14
	infoHeaderSize = 40

	// BI_RGB, the only compression value accepted.
	compressionRGB = 0

	bitsPerPixel = 24
)

// Header is the decoded bitmap metadata. It is a snapshot of what the file
// declared; Encode regenerates a fresh header from the buffer instead of
// reusing a decoded one.
type Header struct {
	FileSize    uint32
	DataOffset  uint32
	Width       int32
	Height      int32
	Planes      uint16
	BitCount    uint16
	Compression uint32
	ImageSize   uint32
}

// TopDown reports whether the file stored its rows top-to-bottom. Most
// bitmaps are bottom-up (positive height); a negative height means top-down.
func (h Header) TopDown() bool { return h.Height < 0 }

// FormatError reports bytes that are not a well-formed bitmap: bad
// signature, impossible dimensions, or a stream shorter than the header
// declares.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "bmp: invalid format: " + e.Reason
}

// UnsupportedFormatError reports a structurally valid bitmap in a variant
// this codec does not handle.
type UnsupportedFormatError struct {
	BitCount    uint16
	Compression uint32
}

func (e *UnsupportedFormatError) Error() string {
	if e.Compression != compressionRGB {
		return fmt.Sprintf("bmp: unsupported compression %d (only uncompressed BI_RGB is supported)", e.Compression)
	}
	return fmt.Sprintf("bmp: unsupported bit depth %d (only 24 bits per pixel is supported)", e.BitCount)
}

func readU16(b []byte, off int) uint16 {
	return uint16(b[off]) | uint16(b[off+1])<<8
}

func readU32(b []byte, off int) uint32 {
	return uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
}

func putU16(b []byte, off int, v uint16) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
}

func putU32(b []byte, off int, v uint32) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
	b[off+2] = byte(v >> 16)
	b[off+3] = byte(v >> 24)
}

// rowSize returns the padded on-disk size of one pixel row. Rows are padded
// to 4-byte boundaries.
func rowSize(width int) int {
	return (width*3 + 3) &^ 3
}

// Decode parses bitmap bytes into a header and a top-down pixel buffer.
// It returns *FormatError for malformed input and *UnsupportedFormatError
// for valid bitmaps outside the 24-bit uncompressed subset.
func Decode(data []byte) (Header, *pixel.Buffer, error) {
	var h Header

	if len(data) < fileHeaderSize {
		return h, nil, &FormatError{Reason: fmt.Sprintf("file header needs %d bytes, have %d", fileHeaderSize, len(data))}
	}
	if data[0] != 'B' || data[1] != 'M' {
		return h, nil, &FormatError{Reason: fmt.Sprintf("signature is [%#x %#x], want \"BM\"", data[0], data[1])}
	}
	h.FileSize = readU32(data, 2)
	h.DataOffset = readU32(data, 10)

	if len(data) < fileHeaderSize+4 {
		return h, nil, &FormatError{Reason: "truncated info header"}
	}
	infoSize := int(readU32(data, fileHeaderSize))
	if infoSize < infoHeaderSize {
		return h, nil, &FormatError{Reason: fmt.Sprintf("info header size %d, want at least %d", infoSize, infoHeaderSize)}
	}
	if len(data) < fileHeaderSize+infoSize {
		return h, nil, &FormatError{Reason: fmt.Sprintf("info header needs %d bytes, have %d", fileHeaderSize+infoSize, len(data))}
	}

	h.Width = int32(readU32(data, 18))
	h.Height = int32(readU32(data, 22))
	h.Planes = readU16(data, 26)
	h.BitCount = readU16(data, 28)
	h.Compression = readU32(data, 30)
	h.ImageSize = readU32(data, 34)

	if h.Width <= 0 || h.Height == 0 {
		return h, nil, &FormatError{Reason: fmt.Sprintf("dimensions %dx%d out of range", h.Width, h.Height)}
	}
	if h.Compression != compressionRGB {
		return h, nil, &UnsupportedFormatError{BitCount: h.BitCount, Compression: h.Compression}
	}
	if h.BitCount != bitsPerPixel {
		return h, nil, &UnsupportedFormatError{BitCount: h.BitCount, Compression: h.Compression}
	}

	width := int(h.Width)
	height := int(h.Height)
	if height < 0 {
		height = -height
	}

	offset := int(h.DataOffset)
	if offset < fileHeaderSize+infoSize {
		return h, nil, &FormatError{Reason: fmt.Sprintf("pixel data offset %d overlaps headers", offset)}
	}
	stride := rowSize(width)
	need := offset + stride*height
	if len(data) < need {
		return h, nil, &FormatError{Reason: fmt.Sprintf("pixel data needs %d bytes, have %d", need, len(data))}
	}

	buf, err := pixel.New(width, height)
	if err != nil {
		return h, nil, &FormatError{Reason: err.Error()}
	}

	for y := 0; y < height; y++ {
		src := y
		if !h.TopDown() {
			src = height - 1 - y
		}
		row := data[offset+src*stride:]
		for x := 0; x < width; x++ {
			// Stored as BGR triples.
			buf.Set(x, y, pixel.RGB{
				R: row[x*3+2],
				G: row[x*3+1],
				B: row[x*3],
			})
		}
	}

	return h, buf, nil
}

// Encode serializes a pixel buffer as a 24-bit uncompressed bitmap with
// bottom-up rows, the layout Decode accepts. Decode(Encode(buf)) yields a
// buffer equal to buf.
func Encode(buf *pixel.Buffer) []byte {
	width := buf.Width()
	height := buf.Height()
	stride := rowSize(width)
	imageSize := stride * height
	fileSize := fileHeaderSize + infoHeaderSize + imageSize

	out := make([]byte, fileSize)
	out[0] = 'B'
	out[1] = 'M'
	putU32(out, 2, uint32(fileSize))
	putU32(out, 10, fileHeaderSize+infoHeaderSize)

	putU32(out, 14, infoHeaderSize)
	putU32(out, 18, uint32(int32(width)))
	putU32(out, 22, uint32(int32(height)))
	putU16(out, 26, 1)
	putU16(out, 28, bitsPerPixel)
	putU32(out, 30, compressionRGB)
	putU32(out, 34, uint32(imageSize))
	// Resolution and color counts stay zero; viewers treat zero as unset.

	pixelData := out[fileHeaderSize+infoHeaderSize:]
	for y := 0; y < height; y++ {
		row := pixelData[(height-1-y)*stride:]
		for x := 0; x < width; x++ {
			c := buf.Get(x, y)
			row[x*3] = c.B
			row[x*3+1] = c.G
			row[x*3+2] = c.R
		}
	}

	return out
}
