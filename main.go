package main

import (
	// standard library
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// third-party
	"github.com/joho/godotenv"

	// internal
	"github.com/bitmapkit/ditherd/internal/config"
	"github.com/bitmapkit/ditherd/internal/logging"
	"github.com/bitmapkit/ditherd/internal/pipeline"
	"github.com/bitmapkit/ditherd/internal/pixel"
	"github.com/bitmapkit/ditherd/internal/quantize"
	"github.com/bitmapkit/ditherd/internal/server"
)

func main() {
	_ = godotenv.Load()
	logging.Setup(config.Get("LOG_LEVEL", "info"))

	var (
		inPath      = flag.String("in", "", "input bitmap path")
		outPath     = flag.String("out", "", "output bitmap path")
		paletteSpec = flag.String("palette", "", "comma-separated colors, e.g. black,white,#ff00ff")
		paletteFile = flag.String("palette-file", config.Get("DITHERD_PALETTE_FILE", ""), "YAML palette file")
		distance    = flag.String("distance", config.Get("DITHERD_DISTANCE", "euclidean"), "distance mode: absolute or euclidean")
		serpentine  = flag.Bool("serpentine", config.GetBool("DITHERD_SERPENTINE", false), "alternate scan direction each row")
		grayBits    = flag.Int("gray-bits", 0, "use a grayscale palette with this bit depth instead of -palette")
		width       = flag.Int("width", 0, "resize to this width before dithering (needs -height)")
		height      = flag.Int("height", 0, "resize to this height before dithering (needs -width)")
		serve       = flag.Bool("serve", false, "run the HTTP service instead of converting a file")
		addr        = flag.String("addr", config.Get("DITHERD_ADDR", ":8000"), "HTTP listen address for -serve")
	)
	flag.Parse()

	if *serve {
		runServer(*addr)
		return
	}

	if *inPath == "" || *outPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	opts, err := buildOptions(*paletteSpec, *paletteFile, *distance, *grayBits, *serpentine, *width, *height)
	if err != nil {
		logging.ErrorWithComponent(logging.ComponentStartup, "Invalid options", "error", err)
		os.Exit(1)
	}
	if err := convertFile(*inPath, *outPath, opts); err != nil {
		logging.ErrorWithComponent(logging.ComponentConvert, "Conversion failed", "input", *inPath, "error", err)
		os.Exit(1)
	}
}

// buildOptions resolves palette and mode flags into pipeline options.
// Precedence: explicit -palette, then -palette-file, then -gray-bits, then
// the black/white default.
func buildOptions(paletteSpec, paletteFile, distance string, grayBits int, serpentine bool, width, height int) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()

	switch {
	case paletteSpec != "":
		p, err := pixel.ParsePalette(paletteSpec)
		if err != nil {
			return opts, err
		}
		opts.Palette = p
	case paletteFile != "":
		p, err := config.LoadPalette(paletteFile)
		if err != nil {
			return opts, err
		}
		opts.Palette = p
	case grayBits > 0:
		p, err := pixel.Grayscale(grayBits)
		if err != nil {
			return opts, err
		}
		opts.Palette = p
	}

	mode, err := quantize.ParseMode(distance)
	if err != nil {
		return opts, err
	}
	opts.Mode = mode
	opts.Serpentine = serpentine
	opts.Width = width
	opts.Height = height
	return opts, nil
}

// convertFile runs the pipeline on one file. The output file is only
// written once the whole conversion has succeeded.
func convertFile(inPath, outPath string, opts pipeline.Options) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}

	out, err := pipeline.Convert(data, opts)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return err
	}
	logging.InfoWithComponent(logging.ComponentConvert, "Wrote output bitmap", "path", outPath, "bytes", len(out))
	return nil
}

func runServer(addr string) {
	logging.InfoWithComponent(logging.ComponentStartup, "Starting ditherd", "address", addr)

	srv := &http.Server{
		Addr:    addr,
		Handler: server.NewRouter(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorWithComponent(logging.ComponentStartup, "Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("Shutting down server")
	timeout := config.GetDuration("DITHERD_SHUTDOWN_TIMEOUT", 30*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logging.Info("Server stopped")
}
