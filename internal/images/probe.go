package images

import (
	"fmt"
	"image"
	"os"
	"time"

	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

const (
	// MaxDimension is the largest width or height fully decoded by
	// LoadConstrained. Larger images are downscaled.
	MaxDimension = 4096

	// MaxPixels caps total decoded pixels. A full 20MP frame uses
	// about 80MB as RGBA.
	MaxPixels = 20_000_000
)

// ProbeDimensions reads an image header and returns its dimensions
// without decoding pixel data.
func ProbeDimensions(path string) (width, height int, err error) {
	start := time.Now()
	defer func() {
		metrics.ArtworkProbeDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.ArtworkProbesTotal.WithLabelValues("error").Inc()
		} else {
			metrics.ArtworkProbesTotal.WithLabelValues("success").Inc()
		}
	}()

	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding image header %s: %w", path, err)
	}
	return config.Width, config.Height, nil
}

// Probe fills in the dimensions of each discovered artwork file.
// Files that fail to probe keep zero dimensions and are logged.
func Probe(infos []Info) []Info {
	for i := range infos {
		w, h, err := ProbeDimensions(infos[i].Path)
		if err != nil {
			logging.Debug("Artwork probe failed for %s: %v", infos[i].Path, err)
			continue
		}
		infos[i].Width = w
		infos[i].Height = h
	}
	return infos
}

// LoadConstrained fully decodes an image, downscaling when it exceeds
// the dimension or pixel limits so oversized artwork cannot exhaust
// memory. Orientation metadata is applied.
func LoadConstrained(path string, maxDimension, maxPixels int) (image.Image, error) {
	width, height, err := ProbeDimensions(path)
	if err != nil {
		logging.Debug("Could not probe %s: %v, decoding unconstrained", path, err)
		return imaging.Open(path, imaging.AutoOrientation(true))
	}

	pixels := width * height
	if width <= maxDimension && height <= maxDimension && pixels <= maxPixels {
		return imaging.Open(path, imaging.AutoOrientation(true))
	}

	targetWidth, targetHeight := width, height
	if width > maxDimension || height > maxDimension {
		if width > height {
			targetWidth = maxDimension
			targetHeight = height * maxDimension / width
		} else {
			targetHeight = maxDimension
			targetWidth = width * maxDimension / height
		}
	}
	if targetWidth*targetHeight > maxPixels {
		scale := float64(maxPixels) / float64(targetWidth*targetHeight)
		targetWidth = int(float64(targetWidth) * scale)
		targetHeight = int(float64(targetHeight) * scale)
	}

	logging.Info("Constraining large image %s from %dx%d to %dx%d", path, width, height, targetWidth, targetHeight)

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return imaging.Resize(img, targetWidth, targetHeight, imaging.Lanczos), nil
}
