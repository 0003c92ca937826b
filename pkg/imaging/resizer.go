// Package imaging resizes generated images for downstream nodes.
package imaging

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Fit modes mirror CSS object-fit: cover fills the target box cropping
// overflow, contain letterboxes, fill stretches.
const (
	FitCover   = "cover"
	FitContain = "contain"
	FitFill    = "fill"
)

// Options describe the target geometry of a resize.
type Options struct {
	Width  int
	Height int
	Fit    string
}

// Resizer produces a resized copy of an image and returns where it lives.
type Resizer interface {
	Resize(ctx context.Context, sourceURL, executionID string, opts Options) (string, error)
}

// LocalResizer fetches the source image, resizes in process, and writes the
// result as PNG under uploadDir/<executionID>/.
type LocalResizer struct {
	uploadDir string
	client    *http.Client
}

func NewLocalResizer(uploadDir string) *LocalResizer {
	return &LocalResizer{
		uploadDir: uploadDir,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *LocalResizer) Resize(ctx context.Context, sourceURL, executionID string, opts Options) (string, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return "", fmt.Errorf("invalid target size %dx%d", opts.Width, opts.Height)
	}

	src, err := r.fetch(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	resized := resample(src, opts)

	dir := filepath.Join(r.uploadDir, executionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("resized_%d.png", time.Now().UnixNano()))

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, resized); err != nil {
		return "", fmt.Errorf("encoding resized image: %w", err)
	}

	return path, nil
}

func (r *LocalResizer) fetch(ctx context.Context, sourceURL string) (image.Image, error) {
	var reader io.ReadCloser

	switch {
	case strings.HasPrefix(sourceURL, "http://"), strings.HasPrefix(sourceURL, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
		if err != nil {
			return nil, fmt.Errorf("building image request: %w", err)
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching image: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching image: status %d", resp.StatusCode)
		}

		reader = resp.Body
	default:
		file, err := os.Open(sourceURL)
		if err != nil {
			return nil, fmt.Errorf("opening image: %w", err)
		}

		reader = file
	}
	defer reader.Close()

	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	return img, nil
}

// resample maps the source into the target box with nearest-neighbour
// sampling, honoring the fit mode.
func resample(src image.Image, opts Options) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))

	bounds := src.Bounds()
	srcW := float64(bounds.Dx())
	srcH := float64(bounds.Dy())
	dstW := float64(opts.Width)
	dstH := float64(opts.Height)

	scaleX := srcW / dstW
	scaleY := srcH / dstH

	switch opts.Fit {
	case FitContain:
		scale := scaleX
		if scaleY > scale {
			scale = scaleY
		}

		scaleX, scaleY = scale, scale
	case FitFill:
	default: // cover
		scale := scaleX
		if scaleY < scale {
			scale = scaleY
		}

		scaleX, scaleY = scale, scale
	}

	// Center the sampled region over the source.
	offsetX := (srcW - dstW*scaleX) / 2
	offsetY := (srcH - dstH*scaleY) / 2

	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			sx := bounds.Min.X + int(float64(x)*scaleX+offsetX)
			sy := bounds.Min.Y + int(float64(y)*scaleY+offsetY)

			if sx < bounds.Min.X || sx >= bounds.Max.X || sy < bounds.Min.Y || sy >= bounds.Max.Y {
				continue
			}

			dst.Set(x, y, src.At(sx, sy))
		}
	}

	return dst
}
