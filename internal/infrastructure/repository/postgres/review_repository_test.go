package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
)

func newReviewRepoWithMock(t *testing.T) (*ReviewRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &ReviewRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestSaveAnalysisUpserts(t *testing.T) {
	repo, mock, done := newReviewRepoWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs("doc-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveAnalysis(context.Background(), "doc-1", domain.DocumentAnalysis{
		DocumentType:    "Articles of Association",
		TotalIssues:     1,
		OverallSeverity: domain.SeverityHigh,
		HasIssues:       true,
	})
	if err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetAnalysisRoundTrip(t *testing.T) {
	repo, mock, done := newReviewRepoWithMock(t)
	defer done()

	stored := domain.DocumentAnalysis{
		DocumentType:    "Articles of Association",
		TotalIssues:     2,
		OverallSeverity: domain.SeverityMedium,
		HasIssues:       true,
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	mock.ExpectQuery("SELECT analysis FROM analyses").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"analysis"}).AddRow(raw))

	got, err := repo.GetAnalysis(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetAnalysis() error = %v", err)
	}
	if got.TotalIssues != 2 || got.OverallSeverity != domain.SeverityMedium {
		t.Fatalf("unexpected analysis: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetAnalysisNotFound(t *testing.T) {
	repo, mock, done := newReviewRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT analysis FROM analyses").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetAnalysis(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestGetBatchNotFound(t *testing.T) {
	repo, mock, done := newReviewRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, document_ids, created_at FROM batches").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetBatch(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrBatchNotFound) {
		t.Fatalf("expected ErrBatchNotFound, got %v", err)
	}
}

func TestGetReportNotFound(t *testing.T) {
	repo, mock, done := newReviewRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT report FROM reports").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetReport(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}
