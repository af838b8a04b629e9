package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
	"github.com/corpagent/adgm-compliance/internal/core/ports"
)

// DocumentQueryUseCase serves document metadata and stored analyses.
type DocumentQueryUseCase struct {
	repo    ports.DocumentRepository
	reviews ports.ReviewRepository
}

func NewDocumentQueryUseCase(repo ports.DocumentRepository, reviews ports.ReviewRepository) *DocumentQueryUseCase {
	return &DocumentQueryUseCase{repo: repo, reviews: reviews}
}

func (uc *DocumentQueryUseCase) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

func (uc *DocumentQueryUseCase) GetAnalysis(ctx context.Context, id string) (*domain.DocumentAnalysis, error) {
	analysis, err := uc.reviews.GetAnalysis(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch analysis by document id: %w", err)
	}
	return analysis, nil
}

// KnowledgeSearchUseCase answers regulation-reference lookups.
type KnowledgeSearchUseCase struct {
	retriever ports.KnowledgeRetriever
}

func NewKnowledgeSearchUseCase(retriever ports.KnowledgeRetriever) *KnowledgeSearchUseCase {
	return &KnowledgeSearchUseCase{retriever: retriever}
}

func (uc *KnowledgeSearchUseCase) Search(ctx context.Context, query string, limit int) ([]domain.RetrievedPassage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "knowledge search", errors.New("empty query"))
	}
	if limit <= 0 {
		limit = 5
	}
	passages, err := uc.retriever.Retrieve(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("retrieve passages: %w", err)
	}
	return passages, nil
}
