package port

import (
	"context"

	"pagelens/internal/domain"
)

// ExtractRequest carries one extraction call's inputs. ImagePath must be
// the canonical (resized) image; Prompt overrides the extractor's default
// when non-empty.
type ExtractRequest struct {
	ImagePath string
	Prompt    string
}

// Extractor abstracts the vision-model extraction service. Extract always
// returns a well-formed ExtractionResult — transient service failures are
// retried internally and terminal failures are recorded in the result,
// never raised past this boundary.
type Extractor interface {
	Extract(ctx context.Context, req ExtractRequest) *domain.ExtractionResult
	ModelName() string
}
