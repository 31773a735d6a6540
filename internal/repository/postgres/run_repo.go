package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pagelens/internal/domain"
	"pagelens/internal/port"
)

type runRepo struct {
	db *sqlx.DB
}

// NewRunRepo creates a new PostgreSQL-backed RunRepository.
func NewRunRepo(db *sqlx.DB) port.RunRepository {
	return &runRepo{db: db}
}

type runRow struct {
	ID            uuid.UUID `db:"id"`
	InputFile     string    `db:"input_file"`
	OutputDir     string    `db:"output_dir"`
	PageCount     int       `db:"page_count"`
	SuccessPages  int       `db:"success_pages"`
	FailedPages   []byte    `db:"failed_pages"`
	TotalElements int       `db:"total_elements"`
	TotalTimeMS   int64     `db:"total_time_ms"`
	Success       bool      `db:"success"`
	ErrorMessage  string    `db:"error_message"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r *runRepo) Record(ctx context.Context, summary *domain.DocumentSummary) error {
	id := uuid.New()
	failedPages, err := json.Marshal(summary.FailedPages)
	if err != nil {
		return fmt.Errorf("runRepo.Record marshal: %w", err)
	}
	createdAt := summary.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO document_runs
		 (id, input_file, output_dir, page_count, success_pages, failed_pages,
		  total_elements, total_time_ms, success, error_message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, summary.InputFile, summary.OutputDir, summary.PageCount,
		summary.SuccessPages, failedPages, summary.TotalElements,
		summary.TotalTime.Milliseconds(), summary.Success, summary.ErrorMessage,
		createdAt)
	if err != nil {
		return fmt.Errorf("runRepo.Record: %w", err)
	}
	summary.ID = id.String()
	return nil
}

func (r *runRepo) ListRecent(ctx context.Context, limit int) ([]domain.DocumentSummary, error) {
	if limit < 1 {
		limit = 20
	}

	var rows []runRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, input_file, output_dir, page_count, success_pages, failed_pages,
		        total_elements, total_time_ms, success, error_message, created_at
		 FROM document_runs
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("runRepo.ListRecent: %w", err)
	}

	summaries := make([]domain.DocumentSummary, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		var failedPages []int
		if len(row.FailedPages) > 0 {
			if err := json.Unmarshal(row.FailedPages, &failedPages); err != nil {
				return nil, fmt.Errorf("runRepo.ListRecent unmarshal: %w", err)
			}
		}
		summaries = append(summaries, domain.DocumentSummary{
			ID:            row.ID.String(),
			InputFile:     row.InputFile,
			OutputDir:     row.OutputDir,
			PageCount:     row.PageCount,
			SuccessPages:  row.SuccessPages,
			FailedPages:   failedPages,
			TotalElements: row.TotalElements,
			TotalTime:     time.Duration(row.TotalTimeMS) * time.Millisecond,
			Success:       row.Success,
			ErrorMessage:  row.ErrorMessage,
			CreatedAt:     row.CreatedAt,
		})
	}
	return summaries, nil
}
