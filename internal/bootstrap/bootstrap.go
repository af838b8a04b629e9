package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/corpagent/adgm-compliance/internal/analysis/classify"
	"github.com/corpagent/adgm-compliance/internal/analysis/process"
	"github.com/corpagent/adgm-compliance/internal/analysis/redflag"
	"github.com/corpagent/adgm-compliance/internal/analysis/sections"
	"github.com/corpagent/adgm-compliance/internal/config"
	"github.com/corpagent/adgm-compliance/internal/core/ports"
	"github.com/corpagent/adgm-compliance/internal/core/usecase"
	"github.com/corpagent/adgm-compliance/internal/infrastructure/annotate/markdown"
	"github.com/corpagent/adgm-compliance/internal/infrastructure/chunking"
	"github.com/corpagent/adgm-compliance/internal/infrastructure/extractor"
	"github.com/corpagent/adgm-compliance/internal/infrastructure/extractor/docx"
	"github.com/corpagent/adgm-compliance/internal/infrastructure/extractor/pdf"
	"github.com/corpagent/adgm-compliance/internal/infrastructure/extractor/plaintext"
	"github.com/corpagent/adgm-compliance/internal/infrastructure/knowledge"
	"github.com/corpagent/adgm-compliance/internal/infrastructure/llm/groq"
	"github.com/corpagent/adgm-compliance/internal/infrastructure/queue/nats"
	"github.com/corpagent/adgm-compliance/internal/infrastructure/repository/postgres"
	"github.com/corpagent/adgm-compliance/internal/infrastructure/resilience"
	"github.com/corpagent/adgm-compliance/internal/infrastructure/storage/localfs"
	"github.com/corpagent/adgm-compliance/internal/rules"
)

type App struct {
	Config config.Config

	Queue ports.MessageQueue
	Repo  ports.DocumentRepository

	IngestUC ports.DocumentIngestor
	ReviewUC ports.DocumentReviewer
	QueryUC  ports.DocumentReader
	BatchUC  ports.BatchReporter
	SearchUC ports.KnowledgeSearcher

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	docs := postgres.NewDocumentRepository(db)
	if err := docs.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	reviews := postgres.NewReviewRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultPolicy())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ruleset, err := loadRuleset(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load rule tables: %w", err)
	}

	classifier := classify.New(ruleset.DocumentTypes)
	sectioner := sections.New()
	analyzer := redflag.New(ruleset)
	detector := process.New(ruleset.Processes)

	splitter := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	index, err := knowledge.NewDefaultIndex(splitter)
	if err != nil {
		return nil, fmt.Errorf("build knowledge index: %w", err)
	}

	groqClient := groq.New(cfg.GroqURL, cfg.GroqModel, cfg.GroqAPIKey).WithExecutor(executor)
	advisor := groq.NewAdvisor(groqClient)
	annotator := markdown.NewWriter(storage)

	plainExtractor := plaintext.NewExtractor(storage)
	docxExtractor := docx.NewExtractor(storage)
	pdfExtractor := pdf.NewExtractor(storage)
	registry := extractor.NewRegistry().
		RegisterExtension(".txt", plainExtractor).
		RegisterExtension(".md", plainExtractor).
		RegisterExtension(".docx", docxExtractor).
		RegisterExtension(".pdf", pdfExtractor).
		RegisterMimeType("text/plain", plainExtractor).
		RegisterMimeType("application/vnd.openxmlformats-officedocument.wordprocessingml.document", docxExtractor).
		RegisterMimeType("application/pdf", pdfExtractor)

	ingestUC := usecase.NewIngestDocumentUseCase(docs, storage, queue)
	reviewUC := usecase.NewReviewDocumentUseCase(
		docs, reviews, registry,
		classifier, sectioner, analyzer,
		index, advisor, annotator,
		cfg.RetrievalTopK, logger,
	)
	queryUC := usecase.NewDocumentQueryUseCase(docs, reviews)
	batchUC := usecase.NewBatchReportUseCase(docs, reviews, detector)
	searchUC := usecase.NewKnowledgeSearchUseCase(index)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   docs,

		IngestUC: ingestUC,
		ReviewUC: reviewUC,
		QueryUC:  queryUC,
		BatchUC:  batchUC,
		SearchUC: searchUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func loadRuleset(path string) (*rules.Ruleset, error) {
	if path == "" {
		return rules.Default()
	}
	return rules.LoadFile(path)
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
