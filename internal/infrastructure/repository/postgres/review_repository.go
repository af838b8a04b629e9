package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
)

// ReviewRepository persists per-document analyses, batches and batch reports
// as JSONB documents keyed by their owner row.
type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) SaveAnalysis(ctx context.Context, documentID string, analysis domain.DocumentAnalysis) error {
	raw, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO analyses (document_id, analysis, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (document_id) DO UPDATE SET analysis = EXCLUDED.analysis, created_at = EXCLUDED.created_at
`, documentID, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert analysis: %w", err)
	}
	return nil
}

func (r *ReviewRepository) GetAnalysis(ctx context.Context, documentID string) (*domain.DocumentAnalysis, error) {
	row := r.db.QueryRowContext(ctx, `SELECT analysis FROM analyses WHERE document_id = $1`, documentID)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get analysis", fmt.Errorf("document id %s", documentID))
		}
		return nil, fmt.Errorf("scan analysis: %w", err)
	}

	var analysis domain.DocumentAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return &analysis, nil
}

func (r *ReviewRepository) CreateBatch(ctx context.Context, batch *domain.Batch) error {
	ids, err := json.Marshal(batch.DocumentIDs)
	if err != nil {
		return fmt.Errorf("marshal document ids: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO batches (id, document_ids, created_at)
VALUES ($1, $2, $3)
`, batch.ID, ids, batch.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (r *ReviewRepository) GetBatch(ctx context.Context, batchID string) (*domain.Batch, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, document_ids, created_at FROM batches WHERE id = $1`, batchID)

	var batch domain.Batch
	var idsRaw []byte
	if err := row.Scan(&batch.ID, &idsRaw, &batch.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrBatchNotFound, "get batch", fmt.Errorf("id %s", batchID))
		}
		return nil, fmt.Errorf("scan batch: %w", err)
	}
	if err := json.Unmarshal(idsRaw, &batch.DocumentIDs); err != nil {
		return nil, fmt.Errorf("unmarshal document ids: %w", err)
	}
	return &batch, nil
}

func (r *ReviewRepository) SaveReport(ctx context.Context, batchID string, report domain.Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO reports (batch_id, report, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (batch_id) DO UPDATE SET report = EXCLUDED.report, created_at = EXCLUDED.created_at
`, batchID, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert report: %w", err)
	}
	return nil
}

func (r *ReviewRepository) GetReport(ctx context.Context, batchID string) (*domain.Report, error) {
	row := r.db.QueryRowContext(ctx, `SELECT report FROM reports WHERE batch_id = $1`, batchID)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrReportNotFound, "get report", fmt.Errorf("batch id %s", batchID))
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, nil
}
