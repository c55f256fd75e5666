package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitmapkit/ditherd/internal/bmp"
	"github.com/bitmapkit/ditherd/internal/logging"
	"github.com/bitmapkit/ditherd/internal/pipeline"
	"github.com/bitmapkit/ditherd/internal/pixel"
)

// maxUploadBytes caps how much image data a single request may carry.
const maxUploadBytes = 64 << 20

// HealthHandler reports liveness.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// PalettesHandler lists the built-in named palettes.
func PalettesHandler(c *gin.Context) {
	out := gin.H{}
	for name, p := range pixel.BuiltinPalettes() {
		colors := make([]string, len(p))
		for i, col := range p {
			colors[i] = fmt.Sprintf("#%02x%02x%02x", col.R, col.G, col.B)
		}
		out[name] = colors
	}
	c.JSON(http.StatusOK, out)
}

// DitherHandler runs the full pipeline on an uploaded bitmap and responds
// with the dithered bitmap. Option errors are 400, malformed bitmaps 422,
// unsupported bitmap variants 415.
func DitherHandler(c *gin.Context) {
	var req DitherRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid options: " + err.Error()})
		return
	}

	opts, err := req.pipelineOptions()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	if len(data) > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds upload limit"})
		return
	}

	out, err := pipeline.Convert(data, opts)
	if err != nil {
		status := http.StatusInternalServerError
		var formatErr *bmp.FormatError
		var unsupportedErr *bmp.UnsupportedFormatError
		var paletteErr *pixel.InvalidPaletteError
		switch {
		case errors.As(err, &formatErr):
			status = http.StatusUnprocessableEntity
		case errors.As(err, &unsupportedErr):
			status = http.StatusUnsupportedMediaType
		case errors.As(err, &paletteErr):
			status = http.StatusBadRequest
		}
		logging.WithComponent(logging.ComponentServer).Warn("conversion failed",
			"request_id", RequestID(c),
			"status", status,
			"error", err,
		)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	logging.WithComponent(logging.ComponentServer).Info("converted bitmap",
		"request_id", RequestID(c),
		"input_bytes", len(data),
		"output_bytes", len(out),
		"palette_size", len(opts.Palette),
		"distance", opts.Mode.String(),
	)
	c.Data(http.StatusOK, "image/bmp", out)
}
