package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
	"github.com/corpagent/adgm-compliance/internal/core/ports"
)

type ReviewDocumentUseCase struct {
	repo       ports.DocumentRepository
	reviews    ports.ReviewRepository
	extractor  ports.TextExtractor
	classifier ports.DocumentClassifier
	sections   ports.SectionExtractor
	analyzer   ports.RedFlagAnalyzer
	retriever  ports.KnowledgeRetriever
	advisor    ports.ComplianceAdvisor
	annotator  ports.AnnotationWriter
	topK       int
	logger     *slog.Logger
}

func NewReviewDocumentUseCase(
	repo ports.DocumentRepository,
	reviews ports.ReviewRepository,
	extractor ports.TextExtractor,
	classifier ports.DocumentClassifier,
	sections ports.SectionExtractor,
	analyzer ports.RedFlagAnalyzer,
	retriever ports.KnowledgeRetriever,
	advisor ports.ComplianceAdvisor,
	annotator ports.AnnotationWriter,
	topK int,
	logger *slog.Logger,
) *ReviewDocumentUseCase {
	return &ReviewDocumentUseCase{
		repo:       repo,
		reviews:    reviews,
		extractor:  extractor,
		classifier: classifier,
		sections:   sections,
		analyzer:   analyzer,
		retriever:  retriever,
		advisor:    advisor,
		annotator:  annotator,
		topK:       topK,
		logger:     logger,
	}
}

type reviewResult struct {
	doc            *domain.Document
	classification domain.ClassificationResult
	wordCount      int
	analysis       domain.DocumentAnalysis
	reviewedPath   string
}

func (uc *ReviewDocumentUseCase) ReviewByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	result, err := uc.reviewPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.persist(ctx, result); err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusReviewed, ""); err != nil {
		return fmt.Errorf("set status=reviewed: %w", err)
	}

	return nil
}

func (uc *ReviewDocumentUseCase) reviewPipeline(ctx context.Context, documentID string) (*reviewResult, error) {
	doc, err := uc.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	text, err := uc.extractText(ctx, doc)
	if err != nil {
		return nil, err
	}

	classification := uc.classifier.Classify(text)
	sections := uc.sections.ExtractSections(text)
	analysis := uc.analyzer.Analyze(text, classification.DocumentType)

	advice := uc.advise(ctx, doc, text, classification.DocumentType)

	reviewedPath, err := uc.annotator.WriteReviewed(ctx, doc, analysis, sections, advice)
	if err != nil {
		return nil, fmt.Errorf("write reviewed copy: %w", err)
	}

	return &reviewResult{
		doc:            doc,
		classification: classification,
		wordCount:      len(strings.Fields(text)),
		analysis:       analysis,
		reviewedPath:   reviewedPath,
	}, nil
}

func (uc *ReviewDocumentUseCase) loadDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

func (uc *ReviewDocumentUseCase) extractText(ctx context.Context, doc *domain.Document) (string, error) {
	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}
	return text, nil
}

// advise enriches the rule-based findings with model-generated advice. The
// review never fails on advisory errors: retrieval or generation problems
// degrade to a nil advice.
func (uc *ReviewDocumentUseCase) advise(ctx context.Context, doc *domain.Document, text, documentType string) *domain.ComplianceAdvice {
	if uc.advisor == nil {
		return nil
	}

	var passages []domain.RetrievedPassage
	if uc.retriever != nil {
		retrieved, err := uc.retriever.Retrieve(ctx, documentType+" "+doc.Filename, uc.topK)
		if err != nil {
			uc.logger.Warn("knowledge retrieval failed, advising without context",
				"document_id", doc.ID, "error", err)
		} else {
			passages = retrieved
		}
	}

	advice, err := uc.advisor.Advise(ctx, text, documentType, passages)
	if err != nil {
		uc.logger.Warn("compliance advisory failed, continuing with rule-based findings only",
			"document_id", doc.ID, "error", err)
		return nil
	}
	return advice
}

func (uc *ReviewDocumentUseCase) persist(ctx context.Context, result *reviewResult) error {
	if err := uc.repo.SaveClassification(ctx, result.doc.ID, result.classification, result.wordCount); err != nil {
		return fmt.Errorf("save classification: %w", err)
	}
	if err := uc.reviews.SaveAnalysis(ctx, result.doc.ID, result.analysis); err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	if err := uc.repo.SetReviewedPath(ctx, result.doc.ID, result.reviewedPath); err != nil {
		return fmt.Errorf("save reviewed path: %w", err)
	}
	return nil
}

func (uc *ReviewDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ReviewDocumentUseCase) markFailed(ctx context.Context, documentID string, reviewErr error) error {
	if reviewErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, reviewErr.Error())
}
