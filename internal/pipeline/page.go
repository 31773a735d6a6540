// Package pipeline orchestrates page and document processing.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"pagelens/internal/domain"
	"pagelens/internal/port"
)

// PagePipeline runs one page through its stages: prepare the image, extract
// elements, persist artifacts. A stage failure short-circuits the remaining
// stages and is reported through the PageResult, never as an error.
type PagePipeline struct {
	preprocessor port.Preprocessor
	extractor    port.Extractor
	store        port.ArtifactStore
}

// NewPagePipeline wires the page stages together.
func NewPagePipeline(pre port.Preprocessor, ext port.Extractor, store port.ArtifactStore) *PagePipeline {
	return &PagePipeline{
		preprocessor: pre,
		extractor:    ext,
		store:        store,
	}
}

// ProcessPage runs the full per-page pipeline. docDir receives the page's
// artifacts; workDir receives the prepared image.
func (p *PagePipeline) ProcessPage(ctx context.Context, pageNumber int, imagePath, docDir, workDir string) domain.PageResult {
	result := domain.PageResult{
		PageNumber: pageNumber,
		ImagePath:  imagePath,
	}

	prepared, err := p.preprocessor.Prepare(ctx, imagePath, workDir)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("preprocess: %v", err)
		log.Printf("pipeline.ProcessPage: page %d preprocess failed: %v", pageNumber, err)
		return result
	}
	result.ImagePath = prepared

	extraction := p.extractor.Extract(ctx, port.ExtractRequest{ImagePath: prepared})
	result.Extraction = extraction
	if !extraction.Success {
		result.ErrorMessage = fmt.Sprintf("extract: %s", extraction.ErrorMessage)
		log.Printf("pipeline.ProcessPage: page %d extraction failed: %s", pageNumber, extraction.ErrorMessage)
		return result
	}

	artifacts, err := p.store.SavePage(ctx, docDir, pageNumber, extraction)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("persist: %v", err)
		log.Printf("pipeline.ProcessPage: page %d persist failed: %v", pageNumber, err)
		return result
	}
	result.Artifacts = artifacts
	result.Success = true

	log.Printf("pipeline.ProcessPage: page %d done, %d elements, %d artifacts",
		pageNumber, extraction.ElementCount(), len(artifacts))
	return result
}
