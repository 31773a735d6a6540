package preprocess

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"pagelens/internal/domain"
)

func writePNG(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	path := filepath.Join(t.TempDir(), "scan.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestResizer_Prepare(t *testing.T) {
	src := writePNG(t, 640, 480)
	destDir := t.TempDir()

	out, err := NewResizer(256).Prepare(context.Background(), src, destDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "scan_prepared.png"), out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	decoded, format, err := image.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 256, decoded.Bounds().Dx())
	assert.Equal(t, 256, decoded.Bounds().Dy())
}

func TestResizer_Prepare_UpscalesSmallImages(t *testing.T) {
	src := writePNG(t, 10, 10)

	out, err := NewResizer(64).Prepare(context.Background(), src, t.TempDir())
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 64, cfg.Height)
}

func TestResizer_Prepare_DecodesBMPAndTIFF(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, 0, color.RGBA{B: 255, A: 255})
	}
	dir := t.TempDir()

	bmpPath := filepath.Join(dir, "page.bmp")
	f, err := os.Create(bmpPath)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, img))
	require.NoError(t, f.Close())

	tiffPath := filepath.Join(dir, "page.tif")
	f, err = os.Create(tiffPath)
	require.NoError(t, err)
	require.NoError(t, tiff.Encode(f, img, nil))
	require.NoError(t, f.Close())

	for _, src := range []string{bmpPath, tiffPath} {
		out, err := NewResizer(32).Prepare(context.Background(), src, t.TempDir())
		require.NoError(t, err, src)

		of, err := os.Open(out)
		require.NoError(t, err)
		cfg, format, err := image.DecodeConfig(of)
		of.Close()
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 32, cfg.Width)
	}
}

func TestResizer_Prepare_MissingFile(t *testing.T) {
	_, err := NewResizer(64).Prepare(context.Background(), "/nope/missing.png", t.TempDir())
	assert.True(t, errors.Is(err, domain.ErrFileNotFound))
}

func TestResizer_Prepare_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(path, []byte("not image data"), 0o644))

	_, err := NewResizer(64).Prepare(context.Background(), path, t.TempDir())
	assert.Error(t, err)
}

func TestResizer_Prepare_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResizer(64).Prepare(ctx, writePNG(t, 5, 5), t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewResizer_DefaultSize(t *testing.T) {
	r := NewResizer(0)
	assert.Equal(t, 1024, r.size)
}
