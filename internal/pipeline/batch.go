package pipeline

import (
	"context"
	"log"

	"pagelens/internal/domain"
)

// Batch drives multiple document runs. Files are processed sequentially in
// input order; page-level concurrency already keeps the extractor busy, and
// sequential files keep its memory use bounded. One file's failure never
// stops the batch.
type Batch struct {
	orchestrator *Orchestrator
}

// NewBatch creates a batch driver around the document orchestrator.
func NewBatch(orchestrator *Orchestrator) *Batch {
	return &Batch{orchestrator: orchestrator}
}

// ProcessBatch runs each input file and returns per-file results in input
// order.
func (b *Batch) ProcessBatch(ctx context.Context, inputPaths []string, outputRoot string, opts Options) *domain.BatchResult {
	batch := &domain.BatchResult{
		Documents: make([]domain.DocumentResult, 0, len(inputPaths)),
	}
	for i, inputPath := range inputPaths {
		log.Printf("pipeline.ProcessBatch: file %d/%d: %s", i+1, len(inputPaths), inputPath)
		result := b.orchestrator.ProcessDocument(ctx, inputPath, outputRoot, opts)
		batch.Documents = append(batch.Documents, *result)
	}
	if failed := batch.FailedDocuments(); len(failed) > 0 {
		log.Printf("pipeline.ProcessBatch: %d/%d documents failed: %v", len(failed), len(inputPaths), failed)
	}
	return batch
}
