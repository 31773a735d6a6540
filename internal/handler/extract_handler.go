package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"pagelens/internal/domain"
	"pagelens/internal/port"
)

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// ExtractHandler handles single-image extraction endpoints.
type ExtractHandler struct {
	preprocessor port.Preprocessor
	extractor    port.Extractor
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(pre port.Preprocessor, ext port.Extractor) *ExtractHandler {
	return &ExtractHandler{preprocessor: pre, extractor: ext}
}

// Extract handles POST /api/v1/extract
// @Summary Extract elements from one page image
// @Description Upload a single page image and receive its typed, located elements
// @Tags extract
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Page image (PNG, JPG, TIFF, or BMP)"
// @Param prompt formData string false "Override the configured model prompt"
// @Success 200 {object} Response{data=domain.ExtractionResult} "Extraction result"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 500 {object} ErrorResponseBody "Extraction failed"
// @Router /extract [post]
func (h *ExtractHandler) Extract(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		HandleError(c, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, ext))
		return
	}

	tmpDir, err := os.MkdirTemp("", "pagelens-extract-*")
	if err != nil {
		HandleError(c, fmt.Errorf("creating temp dir: %w", err))
		return
	}
	defer os.RemoveAll(tmpDir)

	uploadPath := filepath.Join(tmpDir, filepath.Base(header.Filename))
	dst, err := os.Create(uploadPath)
	if err != nil {
		HandleError(c, fmt.Errorf("saving upload: %w", err))
		return
	}
	if _, err := dst.ReadFrom(file); err != nil {
		dst.Close()
		HandleError(c, fmt.Errorf("saving upload: %w", err))
		return
	}
	dst.Close()

	ctx := c.Request.Context()
	prepared, err := h.preprocessor.Prepare(ctx, uploadPath, tmpDir)
	if err != nil {
		HandleError(c, err)
		return
	}

	result := h.extractor.Extract(ctx, port.ExtractRequest{
		ImagePath: prepared,
		Prompt:    c.PostForm("prompt"),
	})
	RespondOK(c, result)
}
