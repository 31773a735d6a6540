package handler

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pagelens/internal/domain"
	"pagelens/internal/export"
	"pagelens/internal/pipeline"
	"pagelens/internal/port"
)

// DocumentHandler handles whole-document processing endpoints.
type DocumentHandler struct {
	orchestrator *pipeline.Orchestrator
	runs         port.RunRepository
	outputRoot   string
	concurrency  int
	combined     bool
}

// NewDocumentHandler creates a new DocumentHandler. runs may be nil when
// the run ledger is disabled.
func NewDocumentHandler(orchestrator *pipeline.Orchestrator, runs port.RunRepository, outputRoot string, concurrency int, combined bool) *DocumentHandler {
	return &DocumentHandler{
		orchestrator: orchestrator,
		runs:         runs,
		outputRoot:   outputRoot,
		concurrency:  concurrency,
		combined:     combined,
	}
}

// ProcessRequest represents the document processing request body.
type ProcessRequest struct {
	InputFile string `json:"input_file" binding:"required" example:"/data/inbox/contract.pdf"`
	FirstPage int    `json:"first_page" example:"1"`
	LastPage  int    `json:"last_page" example:"10"`
}

// Process handles POST /api/v1/documents
// @Summary Process a document
// @Description Run a document (PDF or image) through per-page extraction and return the result. Use ?format=csv or ?format=xlsx to download the element table instead of JSON.
// @Tags documents
// @Accept json
// @Produce json
// @Param request body ProcessRequest true "Document to process"
// @Param format query string false "Response format: json (default), csv, or xlsx"
// @Success 200 {object} Response{data=domain.DocumentResult} "Document result"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Input file not found"
// @Failure 422 {object} ErrorResponseBody "Run failed, no export produced"
// @Router /documents [post]
func (h *DocumentHandler) Process(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "input_file is required")
		return
	}
	if _, err := os.Stat(req.InputFile); err != nil {
		HandleError(c, domain.ErrFileNotFound)
		return
	}

	opts := pipeline.Options{
		Range:       pipeline.PageRange{Start: req.FirstPage, End: req.LastPage},
		Concurrency: h.concurrency,
		Combined:    h.combined,
	}
	result := h.orchestrator.ProcessDocument(c.Request.Context(), req.InputFile, h.outputRoot, opts)

	format := strings.ToLower(c.DefaultQuery("format", "json"))
	name := strings.TrimSuffix(filepath.Base(req.InputFile), filepath.Ext(req.InputFile))

	// A failed run has no element table to export; only the JSON envelope
	// can carry the failure.
	if !result.Success && format != "json" {
		RespondError(c, http.StatusUnprocessableEntity, "PROCESSING_FAILED", result.ErrorMessage)
		return
	}

	switch format {
	case "json":
		RespondOK(c, result)
	case "csv":
		var buf bytes.Buffer
		buf.Write(export.BOM)
		w := export.NewWriter(&buf)
		if err := w.WriteHeader(); err != nil {
			HandleError(c, err)
			return
		}
		if err := w.WriteDocument(result); err != nil {
			HandleError(c, err)
			return
		}
		w.Flush()
		if err := w.Error(); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+export.BuildFilename(name, "csv"))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		var buf bytes.Buffer
		if err := export.WriteWorkbook(&buf, result); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+export.BuildFilename(name, "xlsx"))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be json, csv, or xlsx")
	}
}

// ListRuns handles GET /api/v1/runs
// @Summary List recent document runs
// @Description List recent run summaries from the run ledger, newest first
// @Tags documents
// @Produce json
// @Param limit query int false "Maximum runs to return (default 20)"
// @Success 200 {object} Response{data=[]domain.DocumentSummary} "Recent runs"
// @Failure 503 {object} ErrorResponseBody "Run ledger disabled"
// @Router /runs [get]
func (h *DocumentHandler) ListRuns(c *gin.Context) {
	if h.runs == nil {
		RespondError(c, http.StatusServiceUnavailable, "LEDGER_DISABLED", "run ledger is not enabled")
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			RespondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	summaries, err := h.runs.ListRecent(c.Request.Context(), limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, summaries, PagMeta{Total: len(summaries), Limit: limit})
}
