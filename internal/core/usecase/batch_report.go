package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corpagent/adgm-compliance/internal/analysis/report"
	"github.com/corpagent/adgm-compliance/internal/core/domain"
	"github.com/corpagent/adgm-compliance/internal/core/ports"
)

type BatchReportUseCase struct {
	repo     ports.DocumentRepository
	reviews  ports.ReviewRepository
	detector ports.ProcessDetector
	builder  *report.Builder
}

func NewBatchReportUseCase(
	repo ports.DocumentRepository,
	reviews ports.ReviewRepository,
	detector ports.ProcessDetector,
) *BatchReportUseCase {
	return &BatchReportUseCase{
		repo:     repo,
		reviews:  reviews,
		detector: detector,
		builder:  report.NewBuilder(),
	}
}

// CreateBatch registers a batch of uploaded documents. Every referenced
// document must exist; an empty batch is allowed and reports an unknown
// process.
func (uc *BatchReportUseCase) CreateBatch(ctx context.Context, documentIDs []string) (*domain.Batch, error) {
	if len(documentIDs) > 0 {
		docs, err := uc.repo.ListByIDs(ctx, documentIDs)
		if err != nil {
			return nil, fmt.Errorf("list batch documents: %w", err)
		}
		if len(docs) != len(documentIDs) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "create batch",
				fmt.Errorf("found %d of %d documents", len(docs), len(documentIDs)))
		}
	}

	batch := &domain.Batch{
		ID:          uuid.NewString(),
		DocumentIDs: documentIDs,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.reviews.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}
	return batch, nil
}

// BuildReport detects the process behind the batch, derives the checklist and
// flattens all per-document issues. Every document in the batch must have
// been reviewed. The built report is persisted before it is returned.
func (uc *BatchReportUseCase) BuildReport(ctx context.Context, batchID string) (*domain.Report, error) {
	batch, err := uc.reviews.GetBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("fetch batch by id: %w", err)
	}

	docs, types, err := uc.loadReviewedDocuments(ctx, batch)
	if err != nil {
		return nil, err
	}

	findings, err := uc.collectFindings(ctx, docs)
	if err != nil {
		return nil, err
	}

	// An empty batch skips detection entirely: no votes means no process,
	// no checklist and no missing document, not the first process's checklist.
	var detection domain.ProcessDetection
	if len(docs) > 0 {
		detection = uc.detector.Detect(types)
	}

	built := uc.builder.Build(detection, findings)
	if err := uc.reviews.SaveReport(ctx, batchID, built); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	return &built, nil
}

func (uc *BatchReportUseCase) loadReviewedDocuments(ctx context.Context, batch *domain.Batch) ([]domain.Document, []string, error) {
	if len(batch.DocumentIDs) == 0 {
		return nil, nil, nil
	}

	docs, err := uc.repo.ListByIDs(ctx, batch.DocumentIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("list batch documents: %w", err)
	}
	if len(docs) != len(batch.DocumentIDs) {
		return nil, nil, domain.WrapError(domain.ErrDocumentNotFound, "build report",
			fmt.Errorf("found %d of %d documents", len(docs), len(batch.DocumentIDs)))
	}

	types := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.Status != domain.StatusReviewed {
			return nil, nil, domain.WrapError(domain.ErrInvalidInput, "build report",
				fmt.Errorf("document %s has status %s, want %s", doc.ID, doc.Status, domain.StatusReviewed))
		}
		types = append(types, doc.DocumentType)
	}
	return docs, types, nil
}

func (uc *BatchReportUseCase) collectFindings(ctx context.Context, docs []domain.Document) ([]report.DocumentFindings, error) {
	findings := make([]report.DocumentFindings, 0, len(docs))
	for _, doc := range docs {
		analysis, err := uc.reviews.GetAnalysis(ctx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch analysis for document %s: %w", doc.ID, err)
		}
		if analysis == nil {
			return nil, domain.WrapError(domain.ErrInvalidInput, "build report",
				errors.New("reviewed document without stored analysis"))
		}
		findings = append(findings, report.DocumentFindings{
			DocumentType: doc.DocumentType,
			Analysis:     *analysis,
		})
	}
	return findings, nil
}

// StoredReport returns the last built report for a batch.
func (uc *BatchReportUseCase) StoredReport(ctx context.Context, batchID string) (*domain.Report, error) {
	rep, err := uc.reviews.GetReport(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("fetch report by batch id: %w", err)
	}
	return rep, nil
}
