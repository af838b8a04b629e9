package ports

import (
	"context"
	"io"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	GetAnalysis(ctx context.Context, id string) (*domain.DocumentAnalysis, error)
}

// DocumentReviewer is the inbound contract for asynchronous compliance review.
type DocumentReviewer interface {
	ReviewByID(ctx context.Context, documentID string) error
}

// BatchReporter groups reviewed documents into a batch and builds its report.
type BatchReporter interface {
	CreateBatch(ctx context.Context, documentIDs []string) (*domain.Batch, error)
	BuildReport(ctx context.Context, batchID string) (*domain.Report, error)
	StoredReport(ctx context.Context, batchID string) (*domain.Report, error)
}

// KnowledgeSearcher is the inbound contract for regulation-reference lookup.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.RetrievedPassage, error)
}
