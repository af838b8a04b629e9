// Package report projects per-document analyses and the process checklist
// into the batch-level compliance report.
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/corpagent/adgm-compliance/internal/core/domain"
)

// generalSection labels issues that carry no character-offset location.
const generalSection = "General"

// DocumentFindings pairs an uploaded document's classified type with its
// completed analysis. Issue rows are tagged with the type, not the filename.
type DocumentFindings struct {
	DocumentType string
	Analysis     domain.DocumentAnalysis
}

type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build flattens every issue from every document, in document order, under
// the detected process checklist. MissingDocument carries the first missing
// required type, or the empty string when the checklist is satisfied. An
// empty batch reports the process as "Unknown".
func (b *Builder) Build(detection domain.ProcessDetection, docs []DocumentFindings) domain.Report {
	process := detection.Process
	if len(docs) == 0 {
		process = "Unknown"
	}

	missing := ""
	if len(detection.Missing) > 0 {
		missing = detection.Missing[0]
	}

	total := 0
	for _, doc := range docs {
		total += len(doc.Analysis.Issues)
	}
	issues := make([]domain.ReportIssue, 0, total)
	for _, doc := range docs {
		for _, issue := range doc.Analysis.Issues {
			section := issue.Location
			if section == "" {
				section = generalSection
			}
			issues = append(issues, domain.ReportIssue{
				Document:   doc.DocumentType,
				Section:    section,
				Issue:      issue.Description,
				Severity:   string(issue.Severity),
				Suggestion: issue.Suggestion,
			})
		}
	}

	return domain.Report{
		Process:           process,
		DocumentsUploaded: detection.UploadedCount,
		RequiredDocuments: detection.RequiredCount,
		MissingDocument:   missing,
		IssuesFound:       issues,
	}
}

// WriteCSV renders the report as CSV: a checklist preamble followed by one
// row per flattened issue.
func WriteCSV(w io.Writer, report domain.Report) error {
	cw := csv.NewWriter(w)
	preamble := [][]string{
		{"process", report.Process},
		{"documents_uploaded", strconv.Itoa(report.DocumentsUploaded)},
		{"required_documents", strconv.Itoa(report.RequiredDocuments)},
		{"missing_document", report.MissingDocument},
		{},
		{"document", "section", "issue", "severity", "suggestion"},
	}
	for _, row := range preamble {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	for _, issue := range report.IssuesFound {
		row := []string{issue.Document, issue.Section, issue.Issue, issue.Severity, issue.Suggestion}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
