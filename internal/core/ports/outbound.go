package ports

import (
	"context"
	"io"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveClassification(ctx context.Context, id string, cls domain.ClassificationResult, wordCount int) error
	SetReviewedPath(ctx context.Context, id string, reviewedPath string) error
	ListByIDs(ctx context.Context, ids []string) ([]domain.Document, error)
}

// ReviewRepository persists analyses, batches and batch reports.
type ReviewRepository interface {
	SaveAnalysis(ctx context.Context, documentID string, analysis domain.DocumentAnalysis) error
	GetAnalysis(ctx context.Context, documentID string) (*domain.DocumentAnalysis, error)
	CreateBatch(ctx context.Context, batch *domain.Batch) error
	GetBatch(ctx context.Context, batchID string) (*domain.Batch, error)
	SaveReport(ctx context.Context, batchID string, report domain.Report) error
	GetReport(ctx context.Context, batchID string) (*domain.Report, error)
}

// ObjectStorage stores source documents and reviewed copies.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes review events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// DocumentClassifier assigns a document type to extracted text.
type DocumentClassifier interface {
	Classify(text string) domain.ClassificationResult
}

// SectionExtractor splits extracted text into heading->content spans.
type SectionExtractor interface {
	ExtractSections(text string) map[string]string
}

// RedFlagAnalyzer runs the rule-based compliance checks.
type RedFlagAnalyzer interface {
	Analyze(text, documentType string) domain.DocumentAnalysis
}

// ProcessDetector infers the legal process behind a batch of document types.
type ProcessDetector interface {
	Detect(documentTypes []string) domain.ProcessDetection
}

// Chunker splits text into retrieval-sized chunks.
type Chunker interface {
	Split(text string) []string
}

// KnowledgeRetriever finds regulation passages relevant to a query.
type KnowledgeRetriever interface {
	Retrieve(ctx context.Context, query string, limit int) ([]domain.RetrievedPassage, error)
}

// ComplianceAdvisor produces LLM-backed advisory findings for a document.
// Advisory output enriches the rule-based analysis and is never load-bearing.
type ComplianceAdvisor interface {
	Advise(ctx context.Context, text, documentType string, passages []domain.RetrievedPassage) (*domain.ComplianceAdvice, error)
}

// AnnotationWriter renders the reviewed copy of an analyzed document.
type AnnotationWriter interface {
	WriteReviewed(ctx context.Context, doc *domain.Document, analysis domain.DocumentAnalysis, sections map[string]string, advice *domain.ComplianceAdvice) (string, error)
}
