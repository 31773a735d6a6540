package port

import (
	"context"

	"pagelens/internal/domain"
)

// RunRepository records per-document run summaries for later inspection.
// Recording is best-effort from the pipeline's point of view: a ledger
// failure never fails a document run.
type RunRepository interface {
	Record(ctx context.Context, summary *domain.DocumentSummary) error
	ListRecent(ctx context.Context, limit int) ([]domain.DocumentSummary, error)
}
