// Package preprocess normalizes page images before extraction.
package preprocess

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"pagelens/internal/domain"
	"pagelens/internal/port"
)

// Resizer scales page images to a canonical square and re-encodes them as
// PNG so the vision model always sees a uniform input.
type Resizer struct {
	size int
}

var _ port.Preprocessor = (*Resizer)(nil)

// NewResizer creates a preprocessor that produces size x size PNGs.
func NewResizer(size int) *Resizer {
	if size <= 0 {
		size = 1024
	}
	return &Resizer{size: size}
}

// Prepare decodes the source image, scales it to the canonical size, and
// writes the result into destDir. The returned path is the prepared image.
func (r *Resizer) Prepare(ctx context.Context, imagePath, destDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrFileNotFound, imagePath)
		}
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image %s: %w", imagePath, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.size, r.size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", destDir, err)
	}

	stem := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	outPath := filepath.Join(destDir, stem+"_prepared.png")

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output image: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, dst); err != nil {
		return "", fmt.Errorf("failed to encode output image: %w", err)
	}

	log.Printf("preprocess.Prepare: %s (%s, %dx%d) -> %s (%dx%d)",
		imagePath, format, src.Bounds().Dx(), src.Bounds().Dy(), outPath, r.size, r.size)

	return outPath, nil
}
