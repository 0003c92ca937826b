package imaging

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestImage(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "source.png")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, img))

	return path
}

func decodeOutput(t *testing.T, path string) image.Image {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)

	return img
}

func TestLocalResizer_ResizeToTarget(t *testing.T) {
	source := writeTestImage(t, 100, 60)
	resizer := NewLocalResizer(t.TempDir())

	out, err := resizer.Resize(context.Background(), source, "exec-1", Options{Width: 50, Height: 30, Fit: FitFill})

	require.NoError(t, err)

	img := decodeOutput(t, out)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestLocalResizer_OutputUnderExecutionDir(t *testing.T) {
	source := writeTestImage(t, 20, 20)
	uploadDir := t.TempDir()
	resizer := NewLocalResizer(uploadDir)

	out, err := resizer.Resize(context.Background(), source, "exec-42", Options{Width: 10, Height: 10, Fit: FitCover})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(uploadDir, "exec-42"), filepath.Dir(out))
}

func TestLocalResizer_CoverAndContainKeepTargetBox(t *testing.T) {
	source := writeTestImage(t, 80, 40)
	resizer := NewLocalResizer(t.TempDir())

	for _, fit := range []string{FitCover, FitContain} {
		out, err := resizer.Resize(context.Background(), source, "exec-1", Options{Width: 32, Height: 32, Fit: fit})
		require.NoError(t, err, fit)

		img := decodeOutput(t, out)
		assert.Equal(t, 32, img.Bounds().Dx(), fit)
		assert.Equal(t, 32, img.Bounds().Dy(), fit)
	}
}

func TestLocalResizer_InvalidSize(t *testing.T) {
	resizer := NewLocalResizer(t.TempDir())

	_, err := resizer.Resize(context.Background(), "ignored.png", "exec-1", Options{Width: 0, Height: 10})
	assert.Error(t, err)
}

func TestLocalResizer_MissingSource(t *testing.T) {
	resizer := NewLocalResizer(t.TempDir())

	_, err := resizer.Resize(context.Background(), "/does/not/exist.png", "exec-1", Options{Width: 10, Height: 10})
	assert.Error(t, err)
}
