package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pagelens/internal/domain"
	"pagelens/internal/port"
)

// PageRange selects a 1-based inclusive page window. A zero value selects
// all pages.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Clamp restricts the range to [1, pageCount]. An unset bound defaults to
// the corresponding document edge. A range that still inverts after
// clamping (start > end) selects no pages.
func (r PageRange) Clamp(pageCount int) (int, int) {
	start, end := r.Start, r.End
	if start < 1 {
		start = 1
	}
	if end < 1 || end > pageCount {
		end = pageCount
	}
	return start, end
}

// Options tune one document run.
type Options struct {
	Range       PageRange
	Concurrency int
	Combined    bool
}

// Orchestrator runs whole documents: it validates and expands the input,
// fans pages out to the page pipeline under bounded concurrency, collects
// results in page order, and writes the combined outputs. Per-page failures
// never fail the document; a completed run is a success even when every
// page failed.
type Orchestrator struct {
	expander port.PageExpander
	pages    *PagePipeline
	store    port.ArtifactStore
	runs     port.RunRepository
	mirror   *Mirror
}

// NewOrchestrator wires the document orchestrator. runs and mirror are
// optional; pass nil to disable the ledger and the object-storage mirror.
func NewOrchestrator(expander port.PageExpander, pages *PagePipeline, store port.ArtifactStore, runs port.RunRepository, mirror *Mirror) *Orchestrator {
	return &Orchestrator{
		expander: expander,
		pages:    pages,
		store:    store,
		runs:     runs,
		mirror:   mirror,
	}
}

// ProcessDocument runs one document end to end and returns its result. It
// never returns an error: validation failures are reported through the
// result's Success flag.
func (o *Orchestrator) ProcessDocument(ctx context.Context, inputPath, outputRoot string, opts Options) *domain.DocumentResult {
	start := time.Now()
	result := &domain.DocumentResult{InputFile: inputPath}

	if _, err := os.Stat(inputPath); err != nil {
		result.ErrorMessage = fmt.Sprintf("%v: %s", domain.ErrFileNotFound, inputPath)
		result.TotalTime = time.Since(start)
		log.Printf("pipeline.ProcessDocument: %s", result.ErrorMessage)
		return result
	}

	docDir, err := o.makeDocDir(inputPath, outputRoot)
	if err != nil {
		result.ErrorMessage = err.Error()
		result.TotalTime = time.Since(start)
		return result
	}
	result.OutputDir = docDir
	workDir := filepath.Join(docDir, "work")

	imagePaths, err := o.expander.Expand(ctx, inputPath, workDir)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("expand: %v", err)
		result.TotalTime = time.Since(start)
		log.Printf("pipeline.ProcessDocument: %s: %s", inputPath, result.ErrorMessage)
		return result
	}
	if len(imagePaths) == 0 {
		result.ErrorMessage = domain.ErrNoPages.Error()
		result.TotalTime = time.Since(start)
		return result
	}

	first, last := opts.Range.Clamp(len(imagePaths))
	if first > last {
		result.ErrorMessage = fmt.Sprintf("page range %d..%d selects no pages of a %d-page document",
			first, last, len(imagePaths))
		result.TotalTime = time.Since(start)
		log.Printf("pipeline.ProcessDocument: %s: %s", inputPath, result.ErrorMessage)
		return result
	}
	selected := imagePaths[first-1 : last]
	result.PageCount = len(selected)

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	slots := make([]domain.PageResult, len(selected))
	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, imagePath := range selected {
		pageNumber := first + i
		slot := &slots[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				*slot = domain.PageResult{
					PageNumber:   pageNumber,
					ImagePath:    imagePath,
					ErrorMessage: err.Error(),
				}
				return nil
			}
			*slot = o.pages.ProcessPage(ctx, pageNumber, imagePath, docDir, workDir)
			return nil
		})
	}
	_ = g.Wait()

	result.Pages = slots
	result.Success = true

	if opts.Combined {
		artifacts, err := o.store.SaveCombined(ctx, docDir, result)
		if err != nil {
			log.Printf("pipeline.ProcessDocument: combined output failed for %s: %v", inputPath, err)
		} else {
			log.Printf("pipeline.ProcessDocument: wrote %d combined artifacts for %s", len(artifacts), inputPath)
			result.MirrorURLs = o.mirror.MirrorArtifacts(ctx, docDir, artifacts)
		}
	}

	result.TotalTime = time.Since(start)
	o.recordRun(ctx, result)

	log.Printf("pipeline.ProcessDocument: %s done, %d/%d pages succeeded, %d elements, %s",
		inputPath, result.SuccessfulPages(), result.PageCount, result.TotalElements(), result.TotalTime)
	return result
}

// makeDocDir creates <outputRoot>/<stem>_<suffix> with a fresh run suffix
// so reruns of the same file never collide.
func (o *Orchestrator) makeDocDir(inputPath, outputRoot string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	suffix := strings.ReplaceAll(uuid.NewString()[:8], "-", "")
	docDir := filepath.Join(outputRoot, fmt.Sprintf("%s_%s", stem, suffix))
	if err := os.MkdirAll(docDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return docDir, nil
}

func (o *Orchestrator) recordRun(ctx context.Context, result *domain.DocumentResult) {
	if o.runs == nil {
		return
	}
	summary := result.Summary()
	summary.CreatedAt = time.Now().UTC()
	if err := o.runs.Record(ctx, &summary); err != nil {
		log.Printf("pipeline.recordRun: ledger record failed for %s: %v", result.InputFile, err)
	}
}
