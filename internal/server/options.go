package server

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/bitmapkit/ditherd/internal/pipeline"
	"github.com/bitmapkit/ditherd/internal/pixel"
	"github.com/bitmapkit/ditherd/internal/quantize"
)

// DitherRequest is the option set accepted by the dither endpoint, bound
// from query parameters. The request body is the bitmap itself.
type DitherRequest struct {
	Palette    string `form:"palette" binding:"omitempty,palettecolors"`
	GrayBits   int    `form:"gray_bits" binding:"omitempty,min=1,max=8"`
	Distance   string `form:"distance" binding:"omitempty,oneof=absolute abs euclidean"`
	Serpentine bool   `form:"serpentine"`
	Width      int    `form:"width" binding:"omitempty,min=1,max=16384"`
	Height     int    `form:"height" binding:"omitempty,min=1,max=16384"`
}

// RegisterValidators installs the palettecolors validator on gin's binding
// engine. It must run once before the router handles requests.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("palettecolors", func(fl validator.FieldLevel) bool {
			for _, part := range strings.Split(fl.Field().String(), ",") {
				if strings.TrimSpace(part) == "" {
					continue
				}
				if _, err := pixel.ParseColor(part); err != nil {
					return false
				}
			}
			return true
		})
	}
}

// pipelineOptions resolves the request into pipeline options. The palette
// string wins over gray_bits; with neither, the default black/white palette
// is used.
func (r DitherRequest) pipelineOptions() (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()

	switch {
	case r.Palette != "":
		p, err := pixel.ParsePalette(r.Palette)
		if err != nil {
			return opts, err
		}
		opts.Palette = p
	case r.GrayBits > 0:
		p, err := pixel.Grayscale(r.GrayBits)
		if err != nil {
			return opts, err
		}
		opts.Palette = p
	}

	mode, err := quantize.ParseMode(r.Distance)
	if err != nil {
		return opts, err
	}
	opts.Mode = mode
	opts.Serpentine = r.Serpentine
	opts.Width = r.Width
	opts.Height = r.Height
	return opts, nil
}
