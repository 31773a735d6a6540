package port

import (
	"context"

	"pagelens/internal/domain"
)

// ArtifactStore persists extraction outputs. SavePage writes one page's
// artifacts under the document directory; SaveCombined writes the
// document-level combined outputs and metadata. Both return references to
// the artifacts they produced.
type ArtifactStore interface {
	SavePage(ctx context.Context, docDir string, pageNumber int, result *domain.ExtractionResult) ([]string, error)
	SaveCombined(ctx context.Context, docDir string, result *domain.DocumentResult) ([]string, error)
}
