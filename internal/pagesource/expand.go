// Package pagesource turns document inputs into ordered per-page images.
package pagesource

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"pagelens/internal/domain"
	"pagelens/internal/port"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// Extracted image filenames carry the source page number as the first
// numeric suffix group.
var pageNumRe = regexp.MustCompile(`_(\d+)(?:_[^_]*)?\.(?:png|jpe?g|tiff?|bmp)$`)

// Expander expands a document reference into page images. Single images
// pass through unchanged; PDFs yield one embedded raster per page.
type Expander struct{}

var _ port.PageExpander = (*Expander)(nil)

// NewExpander creates a page expander.
func NewExpander() *Expander {
	return &Expander{}
}

// Expand returns the ordered page image paths for inputPath. For PDFs the
// images are extracted into workDir.
func (e *Expander) Expand(ctx context.Context, inputPath, workDir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, inputPath)
		}
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrUnsupportedFileType, inputPath)
	}

	ext := strings.ToLower(filepath.Ext(inputPath))
	switch {
	case imageExts[ext]:
		return []string{inputPath}, nil
	case ext == ".pdf":
		return e.expandPDF(inputPath, workDir)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, ext)
	}
}

func (e *Expander) expandPDF(inputPath, workDir string) ([]string, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}

	pageCount, err := api.PageCountFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get page count for %s: %w", inputPath, err)
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoPages, inputPath)
	}

	if err := api.ExtractImagesFile(inputPath, workDir, nil, nil); err != nil {
		return nil, fmt.Errorf("failed to extract page images from %s: %w", inputPath, err)
	}

	entries, err := os.ReadDir(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list work directory: %w", err)
	}

	type pageImage struct {
		page int
		path string
	}
	var images []pageImage
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !imageExts[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		page := 0
		if m := pageNumRe.FindStringSubmatch(name); m != nil {
			page, _ = strconv.Atoi(m[1])
		}
		images = append(images, pageImage{page: page, path: filepath.Join(workDir, name)})
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: no page images extracted from %s", domain.ErrNoPages, inputPath)
	}

	sort.Slice(images, func(i, j int) bool {
		if images[i].page != images[j].page {
			return images[i].page < images[j].page
		}
		return images[i].path < images[j].path
	})

	// A page can carry more than one embedded image. Keep the first per
	// page so the result stays one image per source page.
	paths := make([]string, 0, len(images))
	seen := make(map[int]bool)
	for _, img := range images {
		if img.page > 0 && seen[img.page] {
			continue
		}
		seen[img.page] = true
		paths = append(paths, img.path)
	}

	log.Printf("pagesource.Expand: %s has %d pages, extracted %d page images", inputPath, pageCount, len(paths))
	return paths, nil
}
